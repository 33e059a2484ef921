package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/protoscribe/internal/infrastructure/database/redis"
)

// Health check adapters for the readiness endpoint.

type postgresHealthChecker struct {
	pool *pgxpool.Pool
}

func (c *postgresHealthChecker) Name() string { return "postgres" }

func (c *postgresHealthChecker) Check(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

type redisHealthChecker struct {
	client *redis.Client
}

func (c *redisHealthChecker) Name() string { return "redis" }

func (c *redisHealthChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx)
}
