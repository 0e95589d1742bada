package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyfare/airline-service/config"
	"github.com/skyfare/airline-service/internal/domain"
)

// RedisCache holds short-lived seat holds taken while an order transaction
// is in flight, plus a cache of the rarely-changing route list. Seat holds
// are advisory; the tickets unique constraint stays the authority.
type RedisCache struct {
	client    *redis.Client
	routesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, routesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		routesTTL: routesTTL,
	}
}

func (c *RedisCache) AcquireSeatHold(ctx context.Context, flightID int64, row, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(flightID, row, seat), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, flightID int64, row, seat int) error {
	return c.client.Del(ctx, seatHoldKey(flightID, row, seat)).Err()
}

func (c *RedisCache) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	data, err := c.client.Get(ctx, routesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, routes []domain.Route) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey(), payload, c.routesTTL).Err()
}

func (c *RedisCache) InvalidateRoutes(ctx context.Context) error {
	return c.client.Del(ctx, routesKey()).Err()
}

func routesKey() string {
	return "cache:routes"
}

func seatHoldKey(flightID int64, row, seat int) string {
	return fmt.Sprintf("hold:flight:%d:row:%d:seat:%d", flightID, row, seat)
}
