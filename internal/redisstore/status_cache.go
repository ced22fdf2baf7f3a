package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetenergy/internal/models"
)

// StatusCache keeps the hot current-status rows in redis so point lookups skip
// Postgres. It is write-through and best-effort: Postgres stays the source of
// truth and every caller must tolerate a miss.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache returns a redis-backed cache with the given entry TTL.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

func vehicleKey(vehicleID string) string {
	return fmt.Sprintf("telemetry:status:vehicle:%s", vehicleID)
}

func meterKey(meterID string) string {
	return fmt.Sprintf("telemetry:status:meter:%s", meterID)
}

// SaveVehicle caches a vehicle status.
func (c *StatusCache) SaveVehicle(ctx context.Context, status *models.VehicleStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, vehicleKey(status.VehicleID), data, c.ttl).Err()
}

// GetVehicle returns the cached vehicle status, or (nil, nil) on a miss.
func (c *StatusCache) GetVehicle(ctx context.Context, vehicleID string) (*models.VehicleStatus, error) {
	result, err := c.client.Get(ctx, vehicleKey(vehicleID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var status models.VehicleStatus
	if err := json.Unmarshal([]byte(result), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SaveMeter caches a meter status.
func (c *StatusCache) SaveMeter(ctx context.Context, status *models.MeterStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, meterKey(status.MeterID), data, c.ttl).Err()
}

// GetMeter returns the cached meter status, or (nil, nil) on a miss.
func (c *StatusCache) GetMeter(ctx context.Context, meterID string) (*models.MeterStatus, error) {
	result, err := c.client.Get(ctx, meterKey(meterID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var status models.MeterStatus
	if err := json.Unmarshal([]byte(result), &status); err != nil {
		return nil, err
	}
	return &status, nil
}
