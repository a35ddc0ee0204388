package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix is the Redis key prefix for session records.
const sessionKeyPrefix = "session:"

var (
	// ErrNoSession is returned by Read when no record exists for the id.
	ErrNoSession = errors.New("session not found")

	// ErrMissingExpiry is returned by Write for a record that carries an
	// access token but no expiry.
	ErrMissingExpiry = errors.New("access token without expiry")
)

// SessionStore persists session records. One record per browser session;
// Write replaces the whole record.
type SessionStore interface {
	Write(ctx context.Context, sid string, rec *SessionRecord) error
	Read(ctx context.Context, sid string) (*SessionRecord, error)
	Clear(ctx context.Context, sid string) error
	MarkRefreshFailed(ctx context.Context, sid string) error
}

// redisStore keeps records as JSON strings with a sliding TTL set on write.
type redisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionStore creates a Redis-backed SessionStore whose records live for ttl.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	return &redisStore{redis: rdb, ttl: ttl}
}

// Write stores rec under sid, replacing any previous record.
func (s *redisStore) Write(ctx context.Context, sid string, rec *SessionRecord) error {
	if rec.AccessToken != "" && rec.AccessTokenExpires <= 0 {
		return ErrMissingExpiry
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+sid, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing session in Redis: %w", err)
	}
	return nil
}

// Read loads the record for sid.
func (s *redisStore) Read(ctx context.Context, sid string) (*SessionRecord, error) {
	data, err := s.redis.Get(ctx, sessionKeyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from Redis: %w", err)
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return &rec, nil
}

// Clear deletes the record. Deleting a missing record is not an error.
func (s *redisStore) Clear(ctx context.Context, sid string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("deleting session from Redis: %w", err)
	}
	return nil
}

// MarkRefreshFailed flags the record without extending its lifetime.
func (s *redisStore) MarkRefreshFailed(ctx context.Context, sid string) error {
	rec, err := s.Read(ctx, sid)
	if err != nil {
		return err
	}
	rec.Error = ErrorRefreshFailed

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	err = s.redis.SetArgs(ctx, sessionKeyPrefix+sid, data, redis.SetArgs{KeepTTL: true}).Err()
	if err != nil {
		return fmt.Errorf("updating session in Redis: %w", err)
	}
	return nil
}
