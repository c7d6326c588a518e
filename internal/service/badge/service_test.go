package badge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type fakeProgress struct {
	progress map[uuid.UUID]models.Progress
	active   map[uuid.UUID]bool
	err      error
}

func (f *fakeProgress) BadgeProgress(_ context.Context, userID uuid.UUID) (models.Progress, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.progress[userID], nil
}

func (f *fakeProgress) HasRecentActivity(_ context.Context, userID uuid.UUID, _ time.Time) (bool, error) {
	return f.active[userID], nil
}

type fakeBadges struct {
	mu       sync.Mutex
	badges   map[uuid.UUID][]models.Badge
	inactive []uuid.UUID
}

func (f *fakeBadges) Badges(_ context.Context, userID uuid.UUID) ([]models.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.badges[userID], nil
}

func (f *fakeBadges) UpdateBadges(_ context.Context, userID uuid.UUID, fn func([]models.Badge) ([]models.Badge, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	out, err := fn(f.badges[userID])
	if err != nil {
		return err
	}
	f.badges[userID] = out
	return nil
}

func (f *fakeBadges) InactiveBadgeHolders(context.Context, time.Time, []string) ([]uuid.UUID, error) {
	return f.inactive, nil
}

type countingRecorder struct{ awarded []string }

func (r *countingRecorder) BadgeAwarded(id string) { r.awarded = append(r.awarded, id) }

func newTestService(p *fakeProgress, b *fakeBadges, r *countingRecorder) *BadgeService {
	var recorder awardRecorder
	if r != nil {
		recorder = r
	}
	s := NewBadgeService(logger.Discard(), p, b, recorder)
	s.now = func() time.Time { return now }
	return s
}

func TestBadgeService_Evaluate(t *testing.T) {
	user := uuid.New()
	p := &fakeProgress{
		progress: map[uuid.UUID]models.Progress{user: {models.CounterStoriesCompleted: 3}},
		active:   map[uuid.UUID]bool{user: true},
	}
	b := &fakeBadges{badges: map[uuid.UUID][]models.Badge{user: Defaults(now)}}
	rec := &countingRecorder{}
	s := newTestService(p, b, rec)

	res, err := s.Evaluate(context.Background(), user)
	require.NoError(t, err)

	assert.True(t, res.HasNew())
	assert.Equal(t, []string{"spark"}, ids(res.NewlyEarned))
	assert.Equal(t, []string{"spark", "truth_seeker", "first_step"}, ids(res.Current))
	require.Len(t, res.UnlockMessages, 1)
	assert.Contains(t, res.UnlockMessages[0], "Spark")
	assert.Equal(t, []string{"spark"}, rec.awarded)
	assert.Equal(t, res.Current, b.badges[user])

	again, err := s.Evaluate(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, again.HasNew())
	assert.Empty(t, again.UnlockMessages)
	assert.NotNil(t, again.NewlyEarned)
}

func TestBadgeService_EvaluateProgressError(t *testing.T) {
	s := newTestService(&fakeProgress{err: errors.New("db down")}, &fakeBadges{badges: map[uuid.UUID][]models.Badge{}}, nil)

	_, err := s.Evaluate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Nil(t, s.EvaluateQuietly(context.Background(), uuid.New()))
}

func TestBadgeService_InitializeAndEnsureDefaults(t *testing.T) {
	user := uuid.New()
	b := &fakeBadges{badges: map[uuid.UUID][]models.Badge{user: held(t, "spark")}}
	s := newTestService(&fakeProgress{}, b, nil)

	require.NoError(t, s.EnsureDefaults(context.Background(), user))
	assert.Equal(t, []string{"spark", "truth_seeker", "first_step"}, ids(b.badges[user]))

	require.NoError(t, s.Initialize(context.Background(), user))
	assert.Equal(t, []string{"truth_seeker", "first_step"}, ids(b.badges[user]))
}

func TestBadgeService_SweepRetention(t *testing.T) {
	lapsed, other := uuid.New(), uuid.New()
	p := &fakeProgress{
		progress: map[uuid.UUID]models.Progress{
			lapsed: {models.CounterStoriesCompleted: 10},
			other:  {models.CounterGamesPlayed: 1},
		},
		active: map[uuid.UUID]bool{},
	}
	b := &fakeBadges{
		badges: map[uuid.UUID][]models.Badge{
			lapsed: held(t, "spark", "candlebearer", "truth_seeker", "first_step"),
			other:  held(t, "uncover", "truth_seeker", "first_step"),
		},
		inactive: []uuid.UUID{lapsed, other},
	}
	s := newTestService(p, b, nil)

	n, err := s.SweepRetention(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"spark", "truth_seeker", "first_step"}, ids(b.badges[lapsed]))
	assert.Equal(t, []string{"truth_seeker", "first_step"}, ids(b.badges[other]))
}
