package retrying

import (
	"context"
	"linetask/internal/core/domain/logging"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type Policy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxTries:        3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// Permanent marks err as not worth retrying. Do returns the wrapped error as is.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs operation until it succeeds, returns a permanent error, runs out of
// tries or ctx is done. Every failed attempt is logged as a warning.
func Do[T any](
	ctx context.Context,
	log logging.Logger,
	name string,
	policy Policy,
	operation func(ctx context.Context) (T, error),
) (T, error) {
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		b.MaxInterval = policy.MaxInterval
	}
	tries := policy.MaxTries
	if tries == 0 {
		tries = 1
	}

	attempt := 0
	return backoff.Retry(
		ctx,
		func() (T, error) {
			attempt++
			return operation(ctx)
		},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warning(
				ctx,
				"Operation failed, retrying.",
				logging.Entry("operation", name),
				logging.Entry("attempt", attempt),
				logging.Entry("nextIn", next.String()),
				logging.Entry("err", err),
			)
		}),
	)
}
