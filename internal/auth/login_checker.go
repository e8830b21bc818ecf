package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCacheSizeMB = 10
	// upper bound for how long a token stays cached in-process after a redis lookup
	maxCachedFor = 5 * time.Minute
)

// LoginChecker resolves session tokens to user ids.
// Lookups are served from an in-process cache in front of redis.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	cache       *freecache.Cache
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client, cacheSizeMB int) *LoginChecker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cacheSizeMB <= 0 {
		cacheSizeMB = DefaultCacheSizeMB
	}
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		cache:       freecache.NewCache(cacheSizeMB * 1024 * 1024),
		now:         time.Now,
	}
}

// LoggedUser returns the user id of a live session.
func (c *LoginChecker) LoggedUser(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	if cached, err := c.cache.Get([]byte(token)); err == nil {
		return string(cached), true, nil
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Errorf("login checker, cache get: %s", err)
	}

	session, err := c.redisClient.HGetAll(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	userID := session["user_id"]
	if userID == "" {
		return "", false, nil
	}

	createdAtUnix, err := strconv.ParseInt(session["created_at"], 10, 64)
	if err != nil {
		return "", false, err
	}

	remaining := c.ttl - c.now().Sub(time.Unix(createdAtUnix, 0))
	if remaining <= 0 {
		return "", false, nil
	}

	// freecache treats 0 seconds as no expiry
	if cacheForSec := int(min(remaining, maxCachedFor).Seconds()); cacheForSec > 0 {
		if err := c.cache.Set([]byte(token), []byte(userID), cacheForSec); err != nil {
			log.Errorf("login checker, cache set: %s", err)
		}
	}

	return userID, true, nil
}

// Invalidate drops the token from the in-process cache.
func (c *LoginChecker) Invalidate(token string) {
	c.cache.Del([]byte(token))
}
