package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/deskpulse/deskpulse/internal/ports"
)

// RedisDocumentStore keeps each collection in one hash named
// "<prefix>:<collection>", with documents as fields keyed by id.
type RedisDocumentStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis parses url, connects and pings.
func OpenRedis(ctx context.Context, url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewRedisDocumentStore(client *redis.Client, prefix string) *RedisDocumentStore {
	return &RedisDocumentStore{client: client, prefix: prefix}
}

func (s *RedisDocumentStore) key(collection string) string {
	return s.prefix + ":" + collection
}

func (s *RedisDocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	body, err := s.client.HGet(ctx, s.key(collection), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return body, nil
}

func (s *RedisDocumentStore) Put(ctx context.Context, collection, id string, body []byte) error {
	if err := s.client.HSet(ctx, s.key(collection), id, body).Err(); err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}

func (s *RedisDocumentStore) Delete(ctx context.Context, collection, id string) error {
	removed, err := s.client.HDel(ctx, s.key(collection), id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if removed == 0 {
		return ports.ErrDocumentNotFound
	}
	return nil
}

// List returns the documents ordered by id.
func (s *RedisDocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	docs, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bodies := make([][]byte, 0, len(ids))
	for _, id := range ids {
		bodies = append(bodies, []byte(docs[id]))
	}
	return bodies, nil
}

func (s *RedisDocumentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisDocumentStore) Close() error {
	return s.client.Close()
}
