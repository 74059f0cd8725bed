package health

import (
	"context"
	"linetask/internal/core/domain/logging"
	"linetask/internal/http/handlers/response"
	"net/http"
	"time"
)

const checkTimeout = 2 * time.Second

type Check func(ctx context.Context) error

type Handler struct {
	log    logging.Logger
	checks map[string]Check
}

func New(log logging.Logger, checks map[string]Check) *Handler {
	return &Handler{log: log, checks: checks}
}

type Result struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warning(ctx, "Health check failed.", logging.Entry("check", name), logging.Entry("err", err))
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		response.Render(rw, Result{Status: "unavailable", Failed: failed}, http.StatusServiceUnavailable)
		return
	}
	response.Render(rw, Result{Status: "ok"}, http.StatusOK)
}
