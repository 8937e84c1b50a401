package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/enkv/draftpad/models"
)

type RedisDraftCache struct {
	client redis.UniversalClient
}

func NewRedisDraftCache(ctx context.Context, devMode bool, redisEndpoint string) (*RedisDraftCache, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// AWS elasticache endpoints require TLS
			TLSConfig: &tls.Config{},
		})
	}

	err := client.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return &RedisDraftCache{client: client}, nil
}

// Hash tag on the email so all of a user's keys land on one cluster slot
func buildDraftsKey(email string) string {
	return "user:{" + email + "}:drafts"
}

const cacheTTL = 10 * time.Minute

func (redisCache *RedisDraftCache) GetDrafts(ctx context.Context, email string) ([]models.Draft, bool, error) {
	raw, err := redisCache.client.Get(ctx, buildDraftsKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var drafts []models.Draft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		// Corrupt entry: drop it and report a miss
		redisCache.client.Del(ctx, buildDraftsKey(email))
		return nil, false, nil
	}

	return drafts, true, nil
}

func (redisCache *RedisDraftCache) SetDrafts(ctx context.Context, email string, drafts []models.Draft) error {
	raw, err := json.Marshal(drafts)
	if err != nil {
		return err
	}

	return redisCache.client.Set(ctx, buildDraftsKey(email), raw, cacheTTL).Err()
}

func (redisCache *RedisDraftCache) InvalidateUser(ctx context.Context, email string) error {
	return redisCache.client.Del(ctx, buildDraftsKey(email)).Err()
}
