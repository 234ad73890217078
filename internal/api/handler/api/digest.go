package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/marketpulse/pulse/internal/api/job"
	"github.com/marketpulse/pulse/internal/api/response"
	"github.com/marketpulse/pulse/internal/core"
	"github.com/marketpulse/pulse/internal/storage/cache"
)

// DigestService defines the interface needed from digest.Service.
type DigestService interface {
	Run(ctx context.Context, force bool) (*cache.Record, error)
	Current() *cache.Record
	Running() bool
}

// DigestHandler handles digest API requests.
type DigestHandler struct {
	digest DigestService
	jobs   *job.Store
	ttl    time.Duration
}

// NewDigestHandler creates a new digest handler.
func NewDigestHandler(digest DigestService, jobs *job.Store, ttl time.Duration) *DigestHandler {
	return &DigestHandler{digest: digest, jobs: jobs, ttl: ttl}
}

// digestView is the wire shape of a digest record.
type digestView struct {
	Timestamp  time.Time                       `json:"timestamp"`
	Stale      bool                            `json:"stale"`
	Running    bool                            `json:"running"`
	Categories []core.Category                 `json:"categories"`
	Analyses   map[core.Category]core.Analysis `json:"analyses"`
}

// Get returns the current digest record. The stale flag marks records
// older than the digest TTL so the caller can show an "outdated" badge
// rather than silently serving old analyses.
func (h *DigestHandler) Get(w http.ResponseWriter, r *http.Request) {
	record := h.digest.Current()
	if record == nil {
		response.NotFound(w, core.WrapError(core.ErrNoData, nil))
		return
	}

	response.JSON(w, http.StatusOK, digestView{
		Timestamp:  record.Timestamp,
		Stale:      !record.Fresh(h.ttl, time.Now()),
		Running:    h.digest.Running(),
		Categories: record.Categories,
		Analyses:   record.Analyses,
	})
}

// Trigger starts a digest run in the background and returns the job.
func (h *DigestHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.digest.Running() {
		response.Error(w, http.StatusConflict, core.ErrDigestRunning)
		return
	}

	v := r.URL.Query().Get("force")
	force := v == "1" || v == "true"
	j := h.jobs.Create("digest")

	go func() {
		h.jobs.Update(j.ID, func(j *job.Job) {
			j.Status = job.StatusRunning
		})

		record, err := h.digest.Run(context.Background(), force)

		h.jobs.Update(j.ID, func(j *job.Job) {
			if err != nil {
				j.Status = job.StatusFailed
				var coreErr *core.Error
				if errors.As(err, &coreErr) {
					j.Error = coreErr
				} else {
					j.Error = core.WrapError(core.ErrAnalysisFailed, err)
				}
				return
			}
			j.Status = job.StatusComplete
			j.Progress = 100
			j.Result = map[string]any{
				"categories": record.Categories,
				"analyzed":   len(record.Analyses),
			}
		})
	}()

	response.JSON(w, http.StatusAccepted, j)
}
