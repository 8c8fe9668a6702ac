package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
)

// sessionTTL is how long an idle session survives. Every save renews it.
const sessionTTL = 24 * time.Hour

// RedisStorage implements the Storage interface using Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStorage)(nil)

func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStorage{client: rdb, logger: logger}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func gameKey(id string) string {
	return "game:" + id
}

func (r *RedisStorage) SaveGame(ctx context.Context, id string, g *engine.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		r.logger.Error("Failed to marshal game", "id", id, "error", err)
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	if err := r.client.Set(ctx, gameKey(id), string(data), sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to save game", "id", id, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadGame(ctx context.Context, id string) (*engine.Game, error) {
	cmd := r.client.Get(ctx, gameKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Game not found", "id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load game", "id", id, "error", err)
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	var g engine.Game
	if err := json.Unmarshal([]byte(cmd.Val()), &g); err != nil {
		r.logger.Error("Failed to unmarshal game", "id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	// The room index does not serialize; rebuild it.
	if g.Dungeon != nil {
		g.Dungeon.Reindex()
	}
	return &g, nil
}

func (r *RedisStorage) DeleteGame(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, gameKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete game", "id", id, "error", err)
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
