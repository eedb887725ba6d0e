package http

import (
	"net/http"
	"sync"

	"github.com/kerjapoint/attendance-backend-go/internal/handler/http/response"
	"github.com/kerjapoint/attendance-backend-go/internal/service/autocheckout"
)

type JobsHandler interface {
	RunAutoCheckout(w http.ResponseWriter, r *http.Request)
}

type jobsHandlerImpl struct {
	runner *autocheckout.Runner

	// The runner must never run concurrently with itself; the cron job is
	// already serialized, this mutex covers manual triggers.
	mu sync.Mutex
}

func NewJobsHandler(runner *autocheckout.Runner) JobsHandler {
	return &jobsHandlerImpl{runner: runner}
}

// RunAutoCheckout triggers one auto-checkout batch pass. Pass dry_run=true
// to preview the transitions without writing.
func (h *jobsHandlerImpl) RunAutoCheckout(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	h.mu.Lock()
	result, err := h.runner.Run(r.Context(), dryRun)
	h.mu.Unlock()

	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
