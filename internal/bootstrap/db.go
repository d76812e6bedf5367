package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moto-tune/suspension-backend/config"
	"github.com/moto-tune/suspension-backend/internal/db"
	"github.com/moto-tune/suspension-backend/internal/storage/postgres"
)

// Stores holds every backing connection the API needs.
type Stores struct {
	SQL   *sql.DB
	PG    *db.DB
	Redis *redis.Client
}

// OpenStores connects Postgres (both drivers) and Redis, failing fast when
// any of them is unreachable.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	pg, err := db.Open(ctx, &cfg.Database)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	rdb, err := OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		sqlDB.Close()
		pg.Close()
		return nil, err
	}

	return &Stores{SQL: sqlDB, PG: pg, Redis: rdb}, nil
}

func OpenRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *Stores) Close() {
	if s == nil {
		return
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	}
	s.PG.Close()
	if s.SQL != nil {
		if err := s.SQL.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}
