package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"linguachat/internal/models"
)

const userCacheTTL = 5 * time.Minute

// CachedUsers layers a redis read-through cache over the user store for
// the per-request lookups done by the auth middleware. Lookups by email
// and creates always go to the database: the signup duplicate check must
// never read stale data.
type CachedUsers struct {
	inner *Users
	rdb   *redis.Client
}

func NewCachedUsers(inner *Users, rdb *redis.Client) *CachedUsers {
	return &CachedUsers{inner: inner, rdb: rdb}
}

func userKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (c *CachedUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.inner.GetByEmail(ctx, email)
}

func (c *CachedUsers) Create(ctx context.Context, user *models.User) error {
	return c.inner.Create(ctx, user)
}

// GetByID serves from redis when possible. The cached copy goes through
// the model's JSON encoding, so it carries no password hash; credential
// checks always read by email, straight from the database.
func (c *CachedUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if raw, err := c.rdb.Get(ctx, userKey(id)).Bytes(); err == nil {
		var user models.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
	}

	user, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(user); err == nil {
		_ = c.rdb.Set(ctx, userKey(id), raw, userCacheTTL).Err()
	}
	return user, nil
}

// UpdateProfile writes through to the database and drops the cached copy.
func (c *CachedUsers) UpdateProfile(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error) {
	user, err := c.inner.UpdateProfile(ctx, id, p)
	if err != nil {
		return nil, err
	}
	_ = c.rdb.Del(ctx, userKey(id)).Err()
	return user, nil
}
