// Package redis stores token revocations in redis.
//
// Each revocation is a key expiring together with the revoked token,
// so nothing needs to be swept.
package redis

import (
	"context"
	"strconv"
	"time"

	kdb "github.com/opst/grammarfab/pkg/db"
	xe "github.com/opst/grammarfab/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ kdb.RevocationInterface = &Store{}

type Option func(*Store)

// WithPrefix sets prefix of keys. default = "grammarfab:revoked:"
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithClock replaces the clock deciding TTLs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(rdb redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		rdb:    rdb,
		prefix: "grammarfab:revoked:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(jti string) string {
	return s.prefix + jti
}

// Revoke remembers jti until expiresAt.
//
// A token expired already is not recorded, since it is rejected anyway.
func (s *Store) Revoke(ctx context.Context, jti string, userId int64, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, s.key(jti), strconv.FormatInt(userId, 10), ttl).Err(); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, xe.Wrap(err)
	}
	return 0 < n, nil
}

// Sweep does nothing. Redis expires keys by itself.
func (s *Store) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
