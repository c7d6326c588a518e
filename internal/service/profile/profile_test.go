package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type fakeProfiles struct {
	profiles map[uuid.UUID]*models.Profile
	follows  map[[2]uuid.UUID]time.Time
	lastUpd  models.ProfileUpdate
}

func newFakeProfiles(ids ...uuid.UUID) *fakeProfiles {
	f := &fakeProfiles{profiles: map[uuid.UUID]*models.Profile{}, follows: map[[2]uuid.UUID]time.Time{}}
	for i, id := range ids {
		f.profiles[id] = &models.Profile{UserID: id, AvatarKey: models.DefaultAvatar, Points: 100 * (i + 1), CurrentLoginStreak: 5}
	}
	return f
}

func (f *fakeProfiles) Profile(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, app_errors.ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, id uuid.UUID, upd models.ProfileUpdate) (string, error) {
	f.lastUpd = upd
	p := f.profiles[id]
	old := ""
	if upd.Nickname != nil {
		p.Nickname = upd.Nickname
	}
	if upd.AvatarKey != nil {
		old, p.AvatarKey = p.AvatarKey, *upd.AvatarKey
	}
	return old, nil
}

func (f *fakeProfiles) RankStats(_ context.Context, id uuid.UUID) (*models.RankStats, error) {
	rank := 1
	for _, p := range f.profiles {
		if p.Points > f.profiles[id].Points {
			rank++
		}
	}
	return &models.RankStats{Rank: rank, TotalUsers: len(f.profiles), Points: f.profiles[id].Points}, nil
}

func (f *fakeProfiles) CompletedQuizzes(context.Context, uuid.UUID) (int, error) { return 2, nil }

func (f *fakeProfiles) Follow(_ context.Context, a, b uuid.UUID) error {
	if _, ok := f.follows[[2]uuid.UUID{a, b}]; ok {
		return app_errors.ErrAlreadyFollowing
	}
	f.follows[[2]uuid.UUID{a, b}] = time.Now()
	return nil
}

func (f *fakeProfiles) Unfollow(_ context.Context, a, b uuid.UUID) error {
	if _, ok := f.follows[[2]uuid.UUID{a, b}]; !ok {
		return app_errors.ErrNotFollowing
	}
	delete(f.follows, [2]uuid.UUID{a, b})
	return nil
}

func (f *fakeProfiles) IsFollowing(_ context.Context, a, b uuid.UUID) (bool, error) {
	_, ok := f.follows[[2]uuid.UUID{a, b}]
	return ok, nil
}

func (f *fakeProfiles) list(match func(k [2]uuid.UUID) (uuid.UUID, bool)) ([]models.FollowEntry, int, error) {
	out := []models.FollowEntry{}
	for k, at := range f.follows {
		if other, ok := match(k); ok {
			out = append(out, models.FollowEntry{UserID: other, AvatarURL: models.DefaultAvatar, FollowDate: at})
		}
	}
	return out, len(out), nil
}

func (f *fakeProfiles) Followers(_ context.Context, id uuid.UUID, _, _ int) ([]models.FollowEntry, int, error) {
	return f.list(func(k [2]uuid.UUID) (uuid.UUID, bool) { return k[0], k[1] == id })
}

func (f *fakeProfiles) Following(_ context.Context, id uuid.UUID, _, _ int) ([]models.FollowEntry, int, error) {
	return f.list(func(k [2]uuid.UUID) (uuid.UUID, bool) { return k[1], k[0] == id })
}

func (f *fakeProfiles) SearchUsers(_ context.Context, _ uuid.UUID, q string, skip, limit int) ([]models.UserSearchResult, int, error) {
	return []models.UserSearchResult{{Username: q, AvatarURL: "avatars/a.png"}}, 1, nil
}

func (f *fakeProfiles) CreateFeedback(_ context.Context, fb models.Feedback) (*models.Feedback, error) {
	fb.ID = uuid.New()
	return &fb, nil
}

type fakeUsers map[uuid.UUID]bool

func (f fakeUsers) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if !f[id] {
		return nil, app_errors.ErrUserNotFound
	}
	return &models.User{ID: id, IsActive: true}, nil
}

type fakeStreaks struct{ notice *models.StreakNotice }

func (f *fakeStreaks) ConsumeNotice(context.Context, uuid.UUID) *models.StreakNotice {
	n := f.notice
	f.notice = nil
	return n
}

func (f *fakeStreaks) Info(p *models.Profile, n *models.StreakNotice) models.StreakInfo {
	info := models.StreakInfo{CurrentStreak: p.CurrentLoginStreak}
	if n != nil {
		info.StreakBonus = n.Bonus
	}
	return info
}

type memStorage struct{ deleted []string }

func (m *memStorage) Upload(_ context.Context, prefix string, f models.Upload) (string, error) {
	return prefix + "/" + f.Filename, nil
}
func (m *memStorage) URL(_ context.Context, key string) (string, error) {
	if strings.HasPrefix(key, "media/") {
		return key, nil
	}
	return "https://cdn/" + key, nil
}
func (m *memStorage) Delete(_ context.Context, key string) error {
	if !strings.HasPrefix(key, "media/") {
		m.deleted = append(m.deleted, key)
	}
	return nil
}

type env struct {
	svc      *ProfileService
	profiles *fakeProfiles
	streaks  *fakeStreaks
	storage  *memStorage
	a, b     uuid.UUID
}

func newEnv() *env {
	a, b := uuid.New(), uuid.New()
	e := &env{a: a, b: b, profiles: newFakeProfiles(a, b), streaks: &fakeStreaks{}, storage: &memStorage{}}
	e.svc = NewProfileService(logger.Discard(), e.profiles, fakeUsers{a: true, b: true}, e.streaks, media.NewStore(logger.Discard(), e.storage))
	return e
}

func ptr(s string) *string { return &s }

func TestUpdateProfile_Validation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.svc.UpdateProfile(ctx, e.a, ProfileInput{})
	assert.ErrorIs(t, err, app_errors.ErrNothingToUpdate)

	_, err = e.svc.UpdateProfile(ctx, e.a, ProfileInput{LanguagePreference: ptr("Klingon")})
	assert.ErrorIs(t, err, app_errors.ErrInvalidProfileField)

	_, err = e.svc.UpdateProfile(ctx, e.a, ProfileInput{Pronouns: ptr("It/Its")})
	assert.ErrorIs(t, err, app_errors.ErrInvalidProfileField)

	_, err = e.svc.UpdateProfile(ctx, e.a, ProfileInput{Location: ptr("Ontario")})
	assert.ErrorIs(t, err, app_errors.ErrInvalidProfileField)

	_, err = e.svc.UpdateProfile(ctx, e.a, ProfileInput{PersonalizationQuestions: ptr("{nope")})
	assert.ErrorIs(t, err, app_errors.ErrInvalidProfileField)

	_, err = e.svc.UpdateProfile(ctx, e.a, ProfileInput{Avatar: &models.Upload{Filename: "x.txt", Size: 1}})
	assert.ErrorIs(t, err, app_errors.ErrNotImage)
}

func TestUpdateProfile_ReplacesAvatar(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	p, err := e.svc.UpdateProfile(ctx, e.a, ProfileInput{
		Nickname: ptr("  Ada "),
		Location: ptr("New York"),
		Avatar:   &models.Upload{Filename: "one.png", Size: 10, Reader: strings.NewReader("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", *p.Nickname)
	assert.Equal(t, "https://cdn/avatars/one.png", p.AvatarURL)
	assert.Empty(t, e.storage.deleted, "the default avatar is never deleted")

	_, err = e.svc.UpdateProfile(ctx, e.a, ProfileInput{Avatar: &models.Upload{Filename: "two.png", Size: 10, Reader: strings.NewReader("x")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"avatars/one.png"}, e.storage.deleted)
}

func TestMeConsumesStreakBonusOnce(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.streaks.notice = &models.StreakNotice{Bonus: 5, Streak: 5}

	view, err := e.svc.Me(ctx, e.a)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Stats.StreakBonus)
	assert.Equal(t, 7, view.Stats.NextMilestone)
	assert.Equal(t, 2, view.Stats.DaysToNextMilestone)
	assert.Equal(t, 2, view.Stats.Rank)
	assert.Equal(t, 0, view.Stats.Percentile)
	assert.Equal(t, 2, view.Stats.CompletedQuizzes)

	view, err = e.svc.Me(ctx, e.a)
	require.NoError(t, err)
	assert.Zero(t, view.Stats.StreakBonus)
}

func TestUserProfileHidesBadges(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.profiles.profiles[e.b].Badges = []models.Badge{{ID: "spark"}}
	require.NoError(t, e.svc.Follow(ctx, e.a, e.b))

	view, err := e.svc.UserProfile(ctx, e.a, e.b)
	require.NoError(t, err)
	assert.Nil(t, view.Profile.Badges)
	assert.True(t, view.IsFollowing)
	assert.Equal(t, 1, view.Followers.Count)
	assert.Equal(t, models.DefaultAvatar, view.Followers.Recent[0].AvatarURL)
	assert.Equal(t, 50, view.Stats.Percentile)
}

func TestFollowRules(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	assert.ErrorIs(t, e.svc.Follow(ctx, e.a, e.a), app_errors.ErrSelfFollow)
	assert.ErrorIs(t, e.svc.Follow(ctx, e.a, uuid.New()), app_errors.ErrUserNotFound)
	require.NoError(t, e.svc.Follow(ctx, e.a, e.b))
	assert.ErrorIs(t, e.svc.Follow(ctx, e.a, e.b), app_errors.ErrAlreadyFollowing)
	require.NoError(t, e.svc.Unfollow(ctx, e.a, e.b))
	assert.ErrorIs(t, e.svc.Unfollow(ctx, e.a, e.b), app_errors.ErrNotFollowing)
}

func TestSearchUsers(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.svc.SearchUsers(ctx, e.a, "  a ", 0, 20)
	assert.ErrorIs(t, err, app_errors.ErrSearchQueryTooShort)

	page, err := e.svc.SearchUsers(ctx, e.a, " ada ", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, "ada", page.Query)
	assert.Equal(t, "https://cdn/avatars/a.png", page.Items[0].AvatarURL)
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 0, Percentile(1, 0))
	assert.Equal(t, 90, Percentile(1, 10))
	assert.Equal(t, 0, Percentile(10, 10))
}
