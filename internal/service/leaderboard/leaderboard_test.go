package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type fakeRanks struct {
	topCalls int
	entries  []models.LeaderboardEntry
}

func (f *fakeRanks) TopByPoints(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	f.topCalls++
	return f.entries, nil
}

func (f *fakeRanks) RankStats(context.Context, uuid.UUID) (*models.RankStats, error) {
	return &models.RankStats{Rank: 3, TotalUsers: 8, Points: 420}, nil
}

func (f *fakeRanks) CompletedQuizzes(context.Context, uuid.UUID) (int, error) { return 4, nil }

type memCache struct {
	entries []models.LeaderboardEntry
	ok      bool
	broken  bool
}

func (m *memCache) Top(context.Context) ([]models.LeaderboardEntry, bool, error) {
	if m.broken {
		return nil, false, errors.New("redis down")
	}
	return m.entries, m.ok, nil
}

func (m *memCache) SetTop(_ context.Context, e []models.LeaderboardEntry) error {
	if m.broken {
		return errors.New("redis down")
	}
	m.entries, m.ok = e, true
	return nil
}

type urls struct{}

func (urls) Upload(context.Context, string, models.Upload) (string, error) { return "", nil }
func (urls) URL(_ context.Context, key string) (string, error)            { return "u:" + key, nil }
func (urls) Delete(context.Context, string) error                         { return nil }

func newService(r *fakeRanks, c *memCache) *LeaderboardService {
	return NewLeaderboardService(logger.Discard(), r, c, media.NewStore(logger.Discard(), urls{}))
}

func TestTopUsesCache(t *testing.T) {
	ranks := &fakeRanks{entries: []models.LeaderboardEntry{{Rank: 1, Nickname: "ada", AvatarURL: "avatars/a.png"}}}
	cache := &memCache{}
	s := newService(ranks, cache)
	ctx := context.Background()

	board, err := s.Top(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 3, board.UserRank)
	assert.Equal(t, "u:avatars/a.png", board.Leaderboard[0].AvatarURL)

	_, err = s.Top(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, ranks.topCalls)
	assert.Equal(t, "avatars/a.png", cache.entries[0].AvatarURL, "cache keeps object keys")
}

func TestTopWithoutCache(t *testing.T) {
	ranks := &fakeRanks{}
	s := newService(ranks, &memCache{broken: true})

	board, err := s.Top(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, board.Leaderboard)
	assert.Empty(t, board.Leaderboard)
}

func TestRankAndPoints(t *testing.T) {
	s := newService(&fakeRanks{}, &memCache{})
	ctx := context.Background()

	rank, err := s.Rank(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 63, rank.Percentile)

	pts, err := s.Points(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, Points{Points: 420, CompletedQuizzes: 4}, *pts)
}
