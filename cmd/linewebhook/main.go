package main

import (
	"context"
	"linetask/internal/config"
	"linetask/internal/core/domain/logging"
	linemessenger "linetask/internal/implementations/line_messenger"
	zaplogging "linetask/internal/implementations/logging"
	"linetask/internal/implementations/retrying"
	"os"
	"strings"
)

type endpointSetter interface {
	SetWebhookEndpoint(ctx context.Context, endpoint string) error
}

// Points the LINE channel webhook at BASE_URL/webhook.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := zaplogging.NewZapLogger("linetask-webhook", cfg.Debug)

	messenger := linemessenger.New(
		log,
		cfg.LineAPIBaseURL,
		cfg.LineChannelAccessToken,
		cfg.LineRequestTimeout,
		retrying.DefaultPolicy(),
	)
	code := run(context.Background(), log, cfg.BaseURL, messenger)

	log.Sync()
	os.Exit(code)
}

func run(ctx context.Context, log logging.Logger, baseURL string, setter endpointSetter) int {
	if baseURL == "" {
		log.Error(ctx, "BASE_URL is not set.")
		return 1
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/webhook"

	if err := setter.SetWebhookEndpoint(ctx, endpoint); err != nil {
		log.Error(ctx, "Could not set webhook endpoint.", logging.Entry("endpoint", endpoint), logging.Entry("err", err))
		return 1
	}
	log.Info(ctx, "Webhook endpoint set.", logging.Entry("endpoint", endpoint))
	return 0
}
