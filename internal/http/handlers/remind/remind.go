package remind

import (
	"crypto/subtle"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/services"
	sendreminders "linetask/internal/core/services/send_reminders"
	"linetask/internal/http/handlers/response"
	"net/http"
)

type Handler struct {
	log     logging.Logger
	secret  string
	service services.Service[sendreminders.Input, sendreminders.Result]
}

// New creates the reminder trigger handler. An empty secret disables the
// authorization check.
func New(
	log logging.Logger,
	secret string,
	service services.Service[sendreminders.Input, sendreminders.Result],
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{log: log, secret: secret, service: service}
}

type Result struct {
	Success               bool `json:"success"`
	RemindersSentTomorrow int  `json:"remindersSentTomorrow"`
	RemindersSentToday    int  `json:"remindersSentToday"`
	TotalReminders        int  `json:"totalReminders"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.log.Warning(r.Context(), "Reminder trigger is not authorized.", logging.Entry("remoteAddr", r.RemoteAddr))
		response.RenderUnauthorized(rw)
		return
	}

	result, err := h.service.Run(r.Context(), sendreminders.Input{})
	if err != nil {
		logging.Error(r.Context(), h.log, err)
		response.RenderFailure(rw, err)
		return
	}

	response.Render(
		rw,
		Result{
			Success:               true,
			RemindersSentTomorrow: result.RemindersSentTomorrow,
			RemindersSentToday:    result.RemindersSentToday,
			TotalReminders:        result.Total(),
		},
		http.StatusOK,
	)
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	expected := []byte("Bearer " + h.secret)
	return subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), expected) == 1
}
