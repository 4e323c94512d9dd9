package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"faresearch/internal/models"
)

// Cache keeps recent search outcomes so identical queries within the
// TTL skip the whole orchestration.
type Cache interface {
	Get(ctx context.Context, q models.SearchQuery) (models.SearchOutcome, bool)
	Set(ctx context.Context, q models.SearchQuery, outcome models.SearchOutcome) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, q models.SearchQuery) (models.SearchOutcome, bool) {
	data, err := c.client.Get(ctx, outcomeKey(q)).Bytes()
	if err != nil {
		return models.SearchOutcome{}, false
	}

	var outcome models.SearchOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return models.SearchOutcome{}, false
	}
	return outcome, true
}

func (c *RedisCache) Set(ctx context.Context, q models.SearchQuery, outcome models.SearchOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, outcomeKey(q), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, q models.SearchQuery) (models.SearchOutcome, bool) {
	return models.SearchOutcome{}, false
}

func (c *NoOpCache) Set(ctx context.Context, q models.SearchQuery, outcome models.SearchOutcome) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// outcomeKey hashes the fields that change what the upstream returns.
func outcomeKey(q models.SearchQuery) string {
	keyData := struct {
		Origin        string
		Destination   string
		DepartureDate string
		ReturnDate    string
		Adults        int
		Cabin         models.Cabin
		Currency      string
		MaxResults    int
	}{
		Origin:        q.Origin,
		Destination:   q.Destination,
		DepartureDate: q.DepartureDate,
		Adults:        q.Adults,
		Cabin:         q.Cabin,
		Currency:      q.Currency,
		MaxResults:    q.MaxResults,
	}
	if q.ReturnDate != nil {
		keyData.ReturnDate = *q.ReturnDate
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "fare:" + hex.EncodeToString(hash[:])
}
