package cache

import "testing"

func TestNewS3(t *testing.T) {
	store, err := NewS3(S3Config{
		Bucket:    "pulse-cache",
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
		Prefix:    "digests/",
	})
	if err != nil {
		t.Fatalf("NewS3 failed: %v", err)
	}
	if store.prefix != "digests" {
		t.Errorf("expected trailing slash trimmed, got %q", store.prefix)
	}
}

func TestS3Store_ObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "digest/analyses.json", "digest/analyses.json"},
		{"pulse", "digest/analyses.json", "pulse/digest/analyses.json"},
	}
	for _, tt := range tests {
		s := &S3Store{prefix: tt.prefix}
		if got := s.objectKey(tt.key); got != tt.want {
			t.Errorf("objectKey(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
		}
	}
}
