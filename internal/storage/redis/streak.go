package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const (
	guardTTL  = 48 * time.Hour
	noticeTTL = 24 * time.Hour
)

// StreakGuard lets one streak update per user and UTC day through.
type StreakGuard struct {
	client *goredis.Client
}

func NewStreakGuard(client *goredis.Client) *StreakGuard {
	return &StreakGuard{client: client}
}

func guardKey(userID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("streak:guard:%s:%s", userID, day.UTC().Format(time.DateOnly))
}

// Acquire reports whether this is the first call for the user on that day.
func (g *StreakGuard) Acquire(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
	return g.client.SetNX(ctx, guardKey(userID, day), 1, guardTTL).Result()
}

// Release drops the day's guard so the next visit retries the update.
func (g *StreakGuard) Release(ctx context.Context, userID uuid.UUID, day time.Time) error {
	return g.client.Del(ctx, guardKey(userID, day)).Err()
}

// NoticeStore keeps the last streak bonus until it is read once.
type NoticeStore struct {
	client *goredis.Client
}

func NewNoticeStore(client *goredis.Client) *NoticeStore {
	return &NoticeStore{client: client}
}

func noticeKey(userID uuid.UUID) string {
	return "streak:notice:" + userID.String()
}

func (s *NoticeStore) Put(ctx context.Context, userID uuid.UUID, n models.StreakNotice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, noticeKey(userID), data, noticeTTL).Err()
}

// Take returns and removes the pending notice, or nil when there is none.
func (s *NoticeStore) Take(ctx context.Context, userID uuid.UUID) (*models.StreakNotice, error) {
	data, err := s.client.GetDel(ctx, noticeKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var n models.StreakNotice
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode streak notice: %w", err)
	}
	return &n, nil
}
