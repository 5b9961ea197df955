// Package redis implements the repository interfaces on top of Redis.
//
// Each snippet is one JSON value under "snippet:<id>". Records never expire.
// Insertion uses SETNX, so Redis itself guarantees that of two concurrent
// writers of the same id only one succeeds.
package redis

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sakif/notecode/internal/apperror"
	"github.com/sakif/notecode/internal/model"
	"github.com/sakif/notecode/internal/repository"
)

const (
	keyPrefix      = "snippet:"
	defaultTimeout = 5 * time.Second
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	client  *goredis.Client
	timeout time.Duration
}

// New connects to the Redis server at url and verifies it with PING.
func New(ctx context.Context, url string, timeout time.Duration) (*Store, error) {
	opt, err := clientOptions(url, timeout)
	if err != nil {
		return nil, err
	}

	s := &Store{client: goredis.NewClient(opt), timeout: opt.PoolTimeout}
	if err := s.Ping(ctx); err != nil {
		s.client.Close()
		return nil, errors.Wrap(err, "redis: ping")
	}
	return s, nil
}

// clientOptions parses url and applies the store's pool settings.
//
// Client-side retries are disabled. SETNX is not idempotent: if the reply to
// a committed write is lost, a retried SETNX sees its own key and returns
// false, which Put would report as a duplicate and leave an orphan record.
func clientOptions(url string, timeout time.Duration) (*goredis.Options, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "redis: parsing url")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opt.PoolTimeout = timeout
	opt.MaxRetries = -1
	return opt, nil
}

// NewWithClient wraps an existing client. The Store takes ownership of it.
// The client should have MaxRetries set to -1; see clientOptions.
func NewWithClient(client *goredis.Client, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{client: client, timeout: timeout}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Put stores the snippet only if its key is free.
func (s *Store) Put(ctx context.Context, snippet *model.Snippet) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record := *snippet
	record.CreatedAt = record.CreatedAt.UTC()
	data, err := json.Marshal(record)
	if err != nil {
		return apperror.StoreUnavailable("put", errors.Wrap(err, "redis: encoding snippet"))
	}

	ok, err := s.client.SetNX(ctx, keyPrefix+snippet.ID, data, 0).Result()
	if err != nil {
		return apperror.StoreUnavailable("put",
			errors.Wrapf(err, "redis: setnx snippet %s", snippet.ID))
	}
	if !ok {
		return apperror.DuplicateKey("snippet", snippet.ID)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.Snippet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, apperror.StoreUnavailable("get",
			errors.Wrapf(err, "redis: getting snippet %s", id))
	}

	var snippet model.Snippet
	if err := json.Unmarshal(data, &snippet); err != nil {
		return nil, apperror.StoreUnavailable("get",
			errors.Wrapf(err, "redis: decoding snippet %s", id))
	}
	return &snippet, nil
}
