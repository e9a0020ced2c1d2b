package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sosdesk/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const stationsKey = "stations:all"

// StationCache keeps the full station list as one JSON value.
type StationCache struct {
	client *goredis.Client
	key    string
}

func NewStationCache(r *Redis) *StationCache {
	return &StationCache{
		client: r.Client,
		key:    stationsKey,
	}
}

func (c *StationCache) Get(ctx context.Context) ([]domain.Station, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var stations []domain.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, false, err
	}
	return stations, true, nil
}

func (c *StationCache) Set(ctx context.Context, stations []domain.Station, ttl time.Duration) error {
	if stations == nil {
		stations = []domain.Station{}
	}
	b, err := json.Marshal(stations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, ttl).Err()
}

func (c *StationCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
