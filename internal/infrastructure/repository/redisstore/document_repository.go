package redisstore

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/jsoncodec"
)

const pingTimeout = 5 * time.Second

// DocumentRepository stores documents as plain redis strings without expiry.
type DocumentRepository struct {
	client *redis.Client
	prefix string
}

// Open parses redisURL, connects and verifies the connection.
func Open(ctx context.Context, redisURL, prefix string) (*DocumentRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrap(err, "ping redis")
	}

	return NewDocumentRepository(client, prefix), nil
}

func NewDocumentRepository(client *redis.Client, prefix string) *DocumentRepository {
	return &DocumentRepository{
		client: client,
		prefix: strings.Trim(strings.TrimSpace(prefix), ":"),
	}
}

func (r *DocumentRepository) Close() error {
	return r.client.Close()
}

func (r *DocumentRepository) Exists(ctx context.Context, key document.Key) (bool, error) {
	redisKey, err := r.redisKey(key)
	if err != nil {
		return false, err
	}

	n, err := r.client.Exists(ctx, redisKey).Result()
	if err != nil {
		return false, crerr.Wrapf(err, "exists %s", key)
	}
	return n > 0, nil
}

func (r *DocumentRepository) Read(ctx context.Context, key document.Key, target any) error {
	redisKey, err := r.redisKey(key)
	if err != nil {
		return err
	}

	raw, err := r.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if crerr.Is(err, redis.Nil) {
			return crerr.Wrapf(document.ErrNotFound, "read %s", key)
		}
		return crerr.Wrapf(err, "read %s", key)
	}

	if err := jsoncodec.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(document.ErrCorrupt, "decode %s: %v", key, err)
	}
	return nil
}

func (r *DocumentRepository) Write(ctx context.Context, key document.Key, value any) error {
	redisKey, err := r.redisKey(key)
	if err != nil {
		return err
	}

	raw, err := jsoncodec.Marshal(value)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", key)
	}

	if err := r.client.Set(ctx, redisKey, raw, 0).Err(); err != nil {
		return crerr.Wrapf(err, "write %s", key)
	}
	return nil
}

func (r *DocumentRepository) redisKey(key document.Key) (string, error) {
	if !key.Valid() {
		return "", crerr.Newf("invalid document key %q", key)
	}
	return buildKey(r.prefix, key), nil
}

func buildKey(prefix string, key document.Key) string {
	if prefix == "" {
		return string(key.Namespace) + ":" + key.Name
	}
	return prefix + ":" + string(key.Namespace) + ":" + key.Name
}
