package provision

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache define las operaciones mínimas de cache que usa el resto de la
// aplicación. Dos backends: redis (cloud) y memoria (local/dev).
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// CacheStore construye el cache según el contexto. Lazy en ambos casos:
// el cliente redis no dialoguea hasta la primera operación.
func (p *Provisioner) CacheStore() Cache {
	defer p.provisioned("cache")

	kind := p.cfg.Cache.Kind
	if p.rc.IsCloud() || kind == "redis" {
		addr := p.cfg.Cache.Redis.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		if v, ok := getEnv("CACHE_REDIS_ADDR"); ok {
			addr = v
		}
		return &redisCache{client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   p.cfg.Cache.Redis.DB,
		})}
	}

	ttl, _ := time.ParseDuration(p.cfg.Cache.Memory.DefaultTTL)
	if ttl == 0 {
		ttl = 2 * time.Minute
	}
	return &memoryCache{inner: gocache.New(ttl, 2*ttl)}
}

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisCache) Close() error { return c.client.Close() }

type memoryCache struct {
	inner *gocache.Cache
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.inner.Get(key)
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.inner.Set(key, value, ttl)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.inner.Delete(key)
	return nil
}

func (c *memoryCache) Close() error { return nil }
