package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"healthconsultant/internal/domain"
)

const patientDirectoryKey = "healthconsultant:patients:directory"

type redisPatientDirectory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPatientDirectory returns a Redis-backed cache of the full patient list.
func NewPatientDirectory(client *redis.Client, ttl time.Duration) domain.PatientDirectoryCache {
	return &redisPatientDirectory{client: client, ttl: ttl}
}

func (c *redisPatientDirectory) Get(ctx context.Context) ([]domain.Patient, bool, error) {
	data, err := c.client.Get(ctx, patientDirectoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("patient directory: get: %w", err)
	}
	var patients []domain.Patient
	if err := json.Unmarshal(data, &patients); err != nil {
		return nil, false, fmt.Errorf("patient directory: unmarshal: %w", err)
	}
	return patients, true, nil
}

func (c *redisPatientDirectory) Set(ctx context.Context, patients []domain.Patient) error {
	data, err := json.Marshal(patients)
	if err != nil {
		return fmt.Errorf("patient directory: marshal: %w", err)
	}
	if err := c.client.Set(ctx, patientDirectoryKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("patient directory: set: %w", err)
	}
	return nil
}

func (c *redisPatientDirectory) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, patientDirectoryKey).Err(); err != nil {
		return fmt.Errorf("patient directory: invalidate: %w", err)
	}
	return nil
}

type noopPatientDirectory struct{}

// NewNoopPatientDirectory returns a cache that never hits. Used when REDIS_URL is unset.
func NewNoopPatientDirectory() domain.PatientDirectoryCache { return noopPatientDirectory{} }

func (noopPatientDirectory) Get(context.Context) ([]domain.Patient, bool, error) { return nil, false, nil }
func (noopPatientDirectory) Set(context.Context, []domain.Patient) error         { return nil }
func (noopPatientDirectory) Invalidate(context.Context) error                    { return nil }

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
