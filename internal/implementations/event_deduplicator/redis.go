package eventdeduplicator

import (
	"context"
	"errors"
	e "linetask/internal/core/domain/errors"
	"time"

	"github.com/go-redis/redis/v9"
)

const keyPrefix = "linetask::webhook-event::"

type Redis struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedis(redisClient *redis.Client, ttl time.Duration) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	return &Redis{redisClient: redisClient, ttl: ttl}
}

// FirstDelivery claims eventID. When Redis is unavailable the event is
// reported as a first delivery together with the error.
func (r *Redis) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	ok, err := r.redisClient.SetNX(ctx, keyPrefix+eventID, 1, r.ttl).Result()
	if errors.Is(err, context.Canceled) {
		return false, err
	}
	if err != nil {
		return true, err
	}
	return ok, nil
}
