package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const (
	leaderboardKey = "leaderboard:top"
	leaderboardTTL = 30 * time.Second
)

type LeaderboardCache struct {
	client *goredis.Client
}

func NewLeaderboardCache(client *goredis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// Top returns the cached entries; ok is false on a miss.
func (c *LeaderboardCache) Top(ctx context.Context) (entries []models.LeaderboardEntry, ok bool, err error) {
	data, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *LeaderboardCache) SetTop(ctx context.Context, entries []models.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey, data, leaderboardTTL).Err()
}
