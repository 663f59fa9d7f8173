package usecase

import (
	"context"
	"time"
)

// RecommendationCache is the slice of the Redis cache the recommendation
// usecases depend on. The implementation in infrastructure/cache degrades to
// a no-op when Redis is down.
type RecommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	CorpusVersion(ctx context.Context) (int64, error)
	InvalidateRecommendations(ctx context.Context) error
}
