package factory

import (
	"testing"

	"github.com/marketpulse/pulse/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantName string
		wantErr  bool
	}{
		{
			name:     "openai",
			cfg:      config.LLMConfig{Provider: "openai", OpenAI: config.OpenAIConfig{APIKey: "sk-test"}},
			wantName: "openai",
		},
		{
			name:     "claude",
			cfg:      config.LLMConfig{Provider: "claude", Claude: config.ClaudeConfig{APIKey: "sk-ant-test"}},
			wantName: "claude",
		},
		{
			name:     "ollama",
			cfg:      config.LLMConfig{Provider: "ollama", Ollama: config.OllamaConfig{Endpoint: "http://localhost:11434"}},
			wantName: "ollama",
		},
		{
			name:    "unknown provider",
			cfg:     config.LLMConfig{Provider: "bard"},
			wantErr: true,
		},
		{
			name:    "openai missing key",
			cfg:     config.LLMConfig{Provider: "openai"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && client.Name() != tt.wantName {
				t.Errorf("expected client %s, got %s", tt.wantName, client.Name())
			}
		})
	}
}
