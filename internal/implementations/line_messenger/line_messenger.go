package linemessenger

import (
	"context"
	"fmt"
	"linetask/internal/core/domain/logging"
	"linetask/internal/implementations/retrying"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LINE accepts at most 5 message objects per request.
const maxMessagesPerRequest = 5

// APIError is a non 2xx response of the Messaging API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("got unsuccessful response from LINE (%d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type LineMessenger struct {
	log         logging.Logger
	httpClient  *http.Client
	baseURL     url.URL
	accessToken string
	policy      retrying.Policy
	newRetryKey func() string
}

func New(
	log logging.Logger,
	baseURL url.URL,
	accessToken string,
	timeout time.Duration,
	policy retrying.Policy,
) *LineMessenger {
	return &LineMessenger{
		log:         log,
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		accessToken: accessToken,
		policy:      policy,
		newRetryKey: func() string { return uuid.NewString() },
	}
}

func (m *LineMessenger) Reply(ctx context.Context, replyToken string, texts ...string) error {
	if len(texts) == 0 {
		return nil
	}
	request := &messaging_api.ReplyMessageRequest{ReplyToken: replyToken, Messages: toMessages(texts)}
	return m.call(ctx, "reply", "", func(api *messaging_api.MessagingApiAPI) (*http.Response, error) {
		res, _, err := api.ReplyMessageWithHttpInfo(request)
		return res, err
	})
}

// Push sends texts in batches. Each batch keeps its retry key across
// attempts so the platform delivers it once.
func (m *LineMessenger) Push(ctx context.Context, userID string, texts ...string) error {
	for start := 0; start < len(texts); start += maxMessagesPerRequest {
		end := min(start+maxMessagesPerRequest, len(texts))
		request := &messaging_api.PushMessageRequest{To: userID, Messages: toMessages(texts[start:end])}
		retryKey := m.newRetryKey()
		err := m.call(ctx, "push", retryKey, func(api *messaging_api.MessagingApiAPI) (*http.Response, error) {
			res, _, err := api.PushMessageWithHttpInfo(request, retryKey)
			return res, err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SetWebhookEndpoint registers the URL the platform delivers webhook events to.
func (m *LineMessenger) SetWebhookEndpoint(ctx context.Context, endpoint string) error {
	request := &messaging_api.SetWebhookEndpointRequest{Endpoint: endpoint}
	return m.call(ctx, "set webhook endpoint", "", func(api *messaging_api.MessagingApiAPI) (*http.Response, error) {
		res, _, err := api.SetWebhookEndpointWithHttpInfo(request)
		return res, err
	})
}

type sendFunc func(api *messaging_api.MessagingApiAPI) (*http.Response, error)

func (m *LineMessenger) call(ctx context.Context, name string, retryKey string, send sendFunc) error {
	_, err := retrying.Do(ctx, m.log, "line "+name, m.policy, func(ctx context.Context) (struct{}, error) {
		api, err := m.api(ctx)
		if err != nil {
			return struct{}{}, retrying.Permanent(err)
		}
		res, err := send(api)
		return struct{}{}, classify(res, err, retryKey)
	})
	return err
}

// api builds a client bound to ctx. The SDK keeps the context on the client,
// so a shared one would leak contexts between concurrent calls.
func (m *LineMessenger) api(ctx context.Context) (*messaging_api.MessagingApiAPI, error) {
	api, err := messaging_api.NewMessagingApiAPI(
		m.accessToken,
		messaging_api.WithHTTPClient(m.httpClient),
		messaging_api.WithEndpoint(m.baseURL.String()),
	)
	if err != nil {
		return nil, err
	}
	return api.WithContext(ctx), nil
}

// classify maps an SDK result to nil, a retryable error or a permanent one.
// Transport errors come without a response and are retried.
func classify(res *http.Response, err error, retryKey string) error {
	if err == nil {
		return nil
	}
	if res == nil {
		return err
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	// 409 on a push means an earlier attempt with the same retry key was accepted.
	if retryKey != "" && res.StatusCode == http.StatusConflict {
		return nil
	}
	apiErr := &APIError{StatusCode: res.StatusCode, Message: err.Error()}
	if apiErr.Retryable() {
		return apiErr
	}
	return retrying.Permanent(apiErr)
}

func toMessages(texts []string) []messaging_api.MessageInterface {
	messages := make([]messaging_api.MessageInterface, 0, len(texts))
	for _, text := range texts {
		messages = append(messages, messaging_api.TextMessage{Text: text})
	}
	return messages
}
