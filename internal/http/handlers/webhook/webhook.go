package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"linetask/internal/core/domain/bot"
	e "linetask/internal/core/domain/errors"
	"linetask/internal/core/domain/logging"
	"linetask/internal/core/domain/metrics"
	"linetask/internal/core/domain/task"
	"linetask/internal/core/services"
	registertask "linetask/internal/core/services/register_task"
	"linetask/internal/http/handlers/response"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	SignatureHeader = "X-Line-Signature"
	maxBodySize     = 1 << 20
)

type SignatureValidator interface {
	Validate(body []byte, signature string) bool
}

type Handler struct {
	log          logging.Logger
	validator    SignatureValidator
	deduplicator bot.EventDeduplicator
	metrics      metrics.Metrics
	registerTask services.Service[registertask.Input, registertask.Result]
}

func New(
	log logging.Logger,
	validator SignatureValidator,
	deduplicator bot.EventDeduplicator,
	m metrics.Metrics,
	registerTask services.Service[registertask.Input, registertask.Result],
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if validator == nil {
		panic(e.NewNilArgumentError("validator"))
	}
	if deduplicator == nil {
		panic(e.NewNilArgumentError("deduplicator"))
	}
	if m == nil {
		panic(e.NewNilArgumentError("metrics"))
	}
	if registerTask == nil {
		panic(e.NewNilArgumentError("registerTask"))
	}
	return &Handler{
		log:          log,
		validator:    validator,
		deduplicator: deduplicator,
		metrics:      m,
		registerTask: registerTask,
	}
}

type source struct {
	Type       string `json:"type"`
	UserID     string `json:"userId"`
	ReplyToken string `json:"replyToken"`
}

type message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type deliveryContext struct {
	IsRedelivery bool `json:"isRedelivery"`
}

type event struct {
	Type            string          `json:"type"`
	WebhookEventID  string          `json:"webhookEventId"`
	ReplyToken      string          `json:"replyToken"`
	Source          source          `json:"source"`
	Message         *message        `json:"message"`
	DeliveryContext deliveryContext `json:"deliveryContext"`
}

func (ev event) replyToken() string {
	if ev.ReplyToken != "" {
		return ev.ReplyToken
	}
	return ev.Source.ReplyToken
}

type Input struct {
	Destination string  `json:"destination"`
	Events      []event `json:"events"`
}

type Result struct {
	Success bool `json:"success"`
}

func (i *Input) FromJSON(r io.Reader) error {
	return json.NewDecoder(r).Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Events, validation.NotNil),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RenderError(rw, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.log.Error(r.Context(), "Could not read webhook body.", logging.Entry("err", err))
		response.RenderInternalError(rw)
		return
	}

	if !h.validator.Validate(body, r.Header.Get(SignatureHeader)) {
		h.log.Warning(r.Context(), "Webhook signature is not valid.", logging.Entry("bodySize", len(body)))
		response.RenderError(rw, "invalid signature", http.StatusUnauthorized)
		return
	}

	input := Input{}
	if err := input.FromJSON(bytes.NewReader(body)); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	h.log.Info(r.Context(), "Got webhook events.", logging.Entry("eventCount", len(input.Events)))
	for _, ev := range input.Events {
		h.handleEvent(r.Context(), ev)
	}

	response.Render(rw, Result{Success: true}, http.StatusOK)
}

func (h *Handler) handleEvent(ctx context.Context, ev event) {
	if ev.Type != "message" || ev.Message == nil || ev.Message.Type != "text" {
		h.log.Debug(ctx, "Skip webhook event.", logging.Entry("type", ev.Type), logging.Entry("eventID", ev.WebhookEventID))
		h.metrics.WebhookEventHandled(metrics.OutcomeSkipped)
		return
	}
	if ev.Source.UserID == "" {
		h.log.Warning(ctx, "Skip message without user id.", logging.Entry("eventID", ev.WebhookEventID))
		h.metrics.WebhookEventHandled(metrics.OutcomeSkipped)
		return
	}

	first, err := h.deduplicator.FirstDelivery(ctx, ev.WebhookEventID)
	if err != nil {
		h.log.Warning(
			ctx,
			"Could not check webhook event redelivery.",
			logging.Entry("eventID", ev.WebhookEventID),
			logging.Entry("err", err),
		)
	}
	if !first {
		h.log.Info(
			ctx,
			"Skip already processed webhook event.",
			logging.Entry("eventID", ev.WebhookEventID),
			logging.Entry("isRedelivery", ev.DeliveryContext.IsRedelivery),
		)
		h.metrics.WebhookEventHandled(metrics.OutcomeDuplicate)
		return
	}

	_, err = h.registerTask.Run(ctx, registertask.Input{
		UserID:     task.UserID(ev.Source.UserID),
		ReplyToken: ev.replyToken(),
		Text:       ev.Message.Text,
	})
	if err != nil {
		logging.Error(ctx, h.log, err, logging.Entry("eventID", ev.WebhookEventID), logging.Entry("userID", ev.Source.UserID))
	}
}
