package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/quizzard-app/roster-api/pkg/config"
)

// Redis persists documents as JSON blobs with a per-collection id index set.
// Query performs an index scan and filters equality predicates client side;
// collections in this system stay small (one document per student) so a
// server-side secondary index is not worth its bookkeeping.
type Redis struct {
	client *redis.Client
}

var _ Store = (*Redis)(nil)

// NewRedis connects and pings the configured Redis instance.
func NewRedis(cfg config.RedisConfig) (*Redis, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Redis{client: client}, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func docKey(collection, id string) string {
	return fmt.Sprintf("doc:%s:%s", collection, id)
}

func indexKey(collection string) string {
	return fmt.Sprintf("idx:%s", collection)
}

func (r *Redis) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, docKey(collection, id), payload, 0)
		pipe.SAdd(ctx, indexKey(collection), id)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (r *Redis) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := r.client.Get(ctx, docKey(collection, id)).Result()
	if err == redis.Nil {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}

	var fields Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return Document{ID: id, Fields: fields}, nil
}

func (r *Redis) Query(ctx context.Context, collection string, filter Fields) ([]Document, error) {
	ids, err := r.client.SMembers(ctx, indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("scan collection index: %w", err)
	}

	var result []Document
	for _, id := range ids {
		doc, err := r.Get(ctx, collection, id)
		if err == ErrNotFound {
			// Index entry outlived its document; heal the index.
			r.client.SRem(ctx, indexKey(collection), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if matches(doc.Fields, filter) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (r *Redis) Update(ctx context.Context, collection, id string, fields Fields) error {
	doc, err := r.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for key, value := range fields {
		doc.Fields[key] = value
	}

	payload, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := r.client.Set(ctx, docKey(collection, id), payload, 0).Err(); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, docKey(collection, id))
		pipe.SRem(ctx, indexKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
