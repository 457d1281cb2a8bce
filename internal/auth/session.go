package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	userSessionsPrefix = "user_sessions:"
	defaultSessionTTL  = 30 * time.Minute
)

// Store manages sessions in Redis. A session maps its ID to the owning user
// and lives as long as the access token bound to it.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is how long a new session lives.
func (s *Store) TTL() time.Duration { return s.ttl }

func userSessionsKey(userID int64) string {
	return userSessionsPrefix + strconv.FormatInt(userID, 10)
}

// Create stores a new session for userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+id, userID, s.ttl)
	pipe.SAdd(ctx, userSessionsKey(userID), id)
	pipe.Expire(ctx, userSessionsKey(userID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// GetUserID returns the user bound to the session. ok is false when the
// session does not exist or has expired.
func (s *Store) GetUserID(ctx context.Context, id string) (userID int64, ok bool, err error) {
	userID, err = s.rdb.Get(ctx, sessionKeyPrefix+id).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	userID, ok, err := s.GetUserID(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	if ok {
		pipe.SRem(ctx, userSessionsKey(userID), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteAll revokes every session of the user.
func (s *Store) DeleteAll(ctx context.Context, userID int64) error {
	ids, err := s.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userSessionsKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}
