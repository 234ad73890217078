package api

import (
	"net/http"

	"github.com/marketpulse/pulse/internal/api/job"
	"github.com/marketpulse/pulse/internal/api/response"
)

// JobsHandler handles async job status requests.
type JobsHandler struct {
	jobs *job.Store
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobs *job.Store) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// Get returns the status of one job.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.jobs.Get(r.PathValue("id"))
	if err != nil {
		response.NotFound(w, err)
		return
	}
	response.JSON(w, http.StatusOK, j)
}

// List returns all known jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"jobs": h.jobs.List(),
	})
}
