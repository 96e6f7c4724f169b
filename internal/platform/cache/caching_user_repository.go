// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"accounts_backend/internal/feature/identity/domain/entity"
	"accounts_backend/internal/feature/identity/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching of
// the FindByID read path used by the profile endpoints. Email and token
// lookups are never cached: tokens are single-use and a stale hit would
// let a consumed token validate again.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingUserRepositoryがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cacheKey returns the Redis key for a user ID.
func (c *CachingUserRepository) cacheKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// Create inserts the user through the underlying repository. Nothing to
// invalidate: a new user cannot be cached yet.
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	return c.inner.Create(ctx, u)
}

// FindByEmail delegates to the underlying repository without caching.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// FindByToken delegates to the underlying repository without caching.
func (c *CachingUserRepository) FindByToken(ctx context.Context, token string) (*entity.User, error) {
	return c.inner.FindByToken(ctx, token)
}

// FindByID retrieves a user, checking cache first then falling back to
// the database. A Redis failure degrades to a direct read, never to a
// request failure.
//
// Cached copies omit the password hash and the outstanding token (both
// json:"-"): callers of FindByID must not read credentials from it.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Redis未設定時はキャッシュをバイパス
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)
	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var u entity.User
		if err := json.Unmarshal(data, &u); err == nil {
			return &u, nil
		}
		// 壊れたエントリは削除してDBから読み直す
		_ = c.rdb.Del(ctx, key).Err()
	}

	u, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		_ = c.rdb.Set(ctx, key, data, c.ttl).Err() // Best effort
	}
	return u, nil
}

// Save persists the user and invalidates its cache entry so the next
// FindByID observes the new verified/token state.
func (c *CachingUserRepository) Save(ctx context.Context, u *entity.User) error {
	if err := c.inner.Save(ctx, u); err != nil {
		return err
	}
	if c.rdb != nil && u != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(u.ID)).Err() // Best effort
	}
	return nil
}
