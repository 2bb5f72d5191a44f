package leak

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient connects to url (redis:// or rediss://) and checks the
// connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// LoadRedisSet copies the members of the redis set stored at key into memory.
func LoadRedisSet(ctx context.Context, client redis.Cmdable, key string) (Set, error) {
	s := make(Set)

	iter := client.SScan(ctx, key, 0, "", 1000).Iterator()
	for iter.Next(ctx) {
		if member := iter.Val(); member != "" {
			s[member] = struct{}{}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan redis set %s: %w", key, err)
	}

	log.Debug().Msgf("loaded %d leaked passwords from redis set %s", len(s), key)
	return s, nil
}
