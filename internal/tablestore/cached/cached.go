// Package cached wraps a table store with a short-lived redis read cache.
// Reads within the TTL are served from redis; every write deletes the key
// before and after touching the backing store, so the next read is fresh.
// The TTL only papers over the burst of re-reads a single session does; it
// is not a consistency mechanism.
package cached

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"tiendafacil/backend/internal/tablestore"
)

type Store struct {
	inner  tablestore.Store
	client *redis.Client
	ttl    time.Duration
}

func New(inner tablestore.Store, addr string, password string, db int, ttl time.Duration) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Store{inner: inner, client: client, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func key(name string) string {
	return "tablestore:" + name
}

func (s *Store) ReadTable(ctx context.Context, name string, columns []string) ([]map[string]string, error) {
	if payload, err := s.client.Get(ctx, key(name)).Result(); err == nil {
		var rows []map[string]string
		if json.Unmarshal([]byte(payload), &rows) == nil {
			return tablestore.ShapeRows(rows, columns), nil
		}
	}

	rows, err := s.inner.ReadTable(ctx, name, columns)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(rows); err == nil {
		// Cache population is best effort; a failed SET just means the next
		// read hits the store again.
		_ = s.client.Set(ctx, key(name), payload, s.ttl).Err()
	}
	return rows, nil
}

func (s *Store) WriteTable(ctx context.Context, name string, columns []string, rows []map[string]string) error {
	_ = s.client.Del(ctx, key(name)).Err()
	if err := s.inner.WriteTable(ctx, name, columns, rows); err != nil {
		return err
	}
	_ = s.client.Del(ctx, key(name)).Err()
	return nil
}
