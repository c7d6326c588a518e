package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/internal/service/streak"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	recentFollows  = 5
	MinSearchQuery = 2
)

type ProfileRepo interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.ProfileUpdate) (string, error)
	RankStats(ctx context.Context, userID uuid.UUID) (*models.RankStats, error)
	CompletedQuizzes(ctx context.Context, userID uuid.UUID) (int, error)
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Followers(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.FollowEntry, int, error)
	Following(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.FollowEntry, int, error)
	SearchUsers(ctx context.Context, callerID uuid.UUID, q string, skip, limit int) ([]models.UserSearchResult, int, error)
	CreateFeedback(ctx context.Context, f models.Feedback) (*models.Feedback, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type streakReader interface {
	ConsumeNotice(ctx context.Context, userID uuid.UUID) *models.StreakNotice
	Info(profile *models.Profile, notice *models.StreakNotice) models.StreakInfo
}

type ProfileService struct {
	log      logger.Log
	profiles ProfileRepo
	users    userRepo
	streaks  streakReader
	media    *media.Store
}

func NewProfileService(l logger.Log, p ProfileRepo, u userRepo, s streakReader, m *media.Store) *ProfileService {
	return &ProfileService{
		log:      l,
		profiles: p,
		users:    u,
		streaks:  s,
		media:    m,
	}
}

// ProfileInput is a partial profile update with an optional new avatar.
type ProfileInput struct {
	Nickname                 *string
	LanguagePreference       *string
	Pronouns                 *string
	Location                 *string
	PersonalizationQuestions *string
	Avatar                   *models.Upload
}

func checkChoice(value *string, allowed map[string]struct{}, field string) error {
	if value == nil {
		return nil
	}
	if _, ok := allowed[*value]; !ok {
		return fmt.Errorf("%w: %s %q", app_errors.ErrInvalidProfileField, field, *value)
	}
	return nil
}

func (in ProfileInput) toUpdate() (models.ProfileUpdate, error) {
	upd := models.ProfileUpdate{
		LanguagePreference: in.LanguagePreference,
		Pronouns:           in.Pronouns,
		Location:           in.Location,
	}
	if in.Nickname != nil {
		nick := strings.TrimSpace(*in.Nickname)
		if nick == "" {
			return upd, fmt.Errorf("%w: nickname is empty", app_errors.ErrInvalidProfileField)
		}
		upd.Nickname = &nick
	}
	if err := checkChoice(in.LanguagePreference, models.LanguagePreferences, "language_preference"); err != nil {
		return upd, err
	}
	if err := checkChoice(in.Pronouns, models.PronounOptions, "pronouns"); err != nil {
		return upd, err
	}
	if err := checkChoice(in.Location, models.Locations, "location"); err != nil {
		return upd, err
	}
	if in.PersonalizationQuestions != nil {
		raw := json.RawMessage(*in.PersonalizationQuestions)
		if !json.Valid(raw) {
			return upd, fmt.Errorf("%w: personalization_questions is not valid JSON", app_errors.ErrInvalidProfileField)
		}
		upd.PersonalizationQuestions = raw
	}
	return upd, nil
}

// UpdateProfile applies the given fields and swaps the avatar when a new one is uploaded.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.Profile, error) {
	upd, err := in.toUpdate()
	if err != nil {
		return nil, err
	}
	if upd.Empty() && in.Avatar == nil {
		return nil, app_errors.ErrNothingToUpdate
	}

	upd.AvatarKey, err = s.media.PutImage(ctx, media.PrefixAvatars, in.Avatar)
	if err != nil {
		return nil, err
	}
	replaced, err := s.profiles.UpdateProfile(ctx, userID, upd)
	if err != nil {
		s.media.DiscardNew(ctx, upd.AvatarKey)
		return nil, err
	}
	s.media.Discard(ctx, replaced)

	return s.profile(ctx, userID)
}

func (s *ProfileService) profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.AvatarURL = s.media.URL(ctx, p.AvatarKey)
	return p, nil
}

func (s *ProfileService) followSummary(ctx context.Context, userID uuid.UUID, list func(context.Context, uuid.UUID, int, int) ([]models.FollowEntry, int, error)) (models.FollowSummary, error) {
	entries, total, err := list(ctx, userID, 0, recentFollows)
	if err != nil {
		return models.FollowSummary{}, err
	}
	s.resolveFollowAvatars(ctx, entries)
	return models.FollowSummary{Count: total, Recent: entries}, nil
}

func (s *ProfileService) resolveFollowAvatars(ctx context.Context, entries []models.FollowEntry) {
	for i := range entries {
		entries[i].AvatarURL = s.media.URL(ctx, entries[i].AvatarURL)
	}
}

// Percentile is the share of users ranked below, rounded to a whole percent.
func Percentile(rank, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round((1 - float64(rank)/float64(total)) * 100))
}

func (s *ProfileService) view(ctx context.Context, viewerID, userID uuid.UUID, withBadges bool) (*models.ProfileView, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !withBadges {
		p.Badges = nil
	}

	followers, err := s.followSummary(ctx, userID, s.profiles.Followers)
	if err != nil {
		return nil, err
	}
	following, err := s.followSummary(ctx, userID, s.profiles.Following)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != userID {
		if isFollowing, err = s.profiles.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}

	rank, err := s.profiles.RankStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.profiles.CompletedQuizzes(ctx, userID)
	if err != nil {
		return nil, err
	}

	var notice *models.StreakNotice
	if viewerID == userID {
		notice = s.streaks.ConsumeNotice(ctx, userID)
	}
	milestone, left := streak.NextMilestone(p.CurrentLoginStreak)
	stats := models.ProfileStats{
		Rank:                rank.Rank,
		TotalUsers:          rank.TotalUsers,
		Percentile:          Percentile(rank.Rank, rank.TotalUsers),
		CompletedQuizzes:    quizzes,
		CurrentLoginStreak:  p.CurrentLoginStreak,
		MaxLoginStreak:      p.MaxLoginStreak,
		NextMilestone:       milestone,
		DaysToNextMilestone: left,
	}
	if notice != nil {
		stats.StreakBonus = notice.Bonus
	}

	return &models.ProfileView{
		User:        *user,
		Profile:     *p,
		Followers:   followers,
		Following:   following,
		IsFollowing: isFollowing,
		Stats:       stats,
	}, nil
}

// Me is the caller's own profile, badges included.
func (s *ProfileService) Me(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error) {
	return s.view(ctx, userID, userID, true)
}

func (s *ProfileService) UserProfile(ctx context.Context, viewerID, userID uuid.UUID) (*models.ProfileView, error) {
	return s.view(ctx, viewerID, userID, false)
}

func (s *ProfileService) StreakInfo(ctx context.Context, userID uuid.UUID) (*models.StreakInfo, error) {
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := s.streaks.Info(p, s.streaks.ConsumeNotice(ctx, userID))
	return &info, nil
}

func (s *ProfileService) Notifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return streak.Notifications(s.streaks.ConsumeNotice(ctx, userID), p.CurrentLoginStreak), nil
}

func (s *ProfileService) CreateFeedback(ctx context.Context, userID uuid.UUID, text string) (*models.Feedback, error) {
	return s.profiles.CreateFeedback(ctx, models.Feedback{UserID: userID, Text: strings.TrimSpace(text)})
}

func (s *ProfileService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return app_errors.ErrSelfFollow
	}
	if _, err := s.users.UserByID(ctx, followingID); err != nil {
		return err
	}
	return s.profiles.Follow(ctx, followerID, followingID)
}

func (s *ProfileService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return s.profiles.Unfollow(ctx, followerID, followingID)
}

// FollowPage is one page of a followers or following list.
type FollowPage struct {
	Items []models.FollowEntry `json:"items"`
	Total int                  `json:"total"`
	Skip  int                  `json:"skip"`
	Limit int                  `json:"limit"`
}

func (s *ProfileService) follows(ctx context.Context, userID uuid.UUID, skip, limit int,
	list func(context.Context, uuid.UUID, int, int) ([]models.FollowEntry, int, error)) (*FollowPage, error) {
	if _, err := s.users.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	items, total, err := list(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	s.resolveFollowAvatars(ctx, items)
	return &FollowPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *ProfileService) Followers(ctx context.Context, userID uuid.UUID, skip, limit int) (*FollowPage, error) {
	return s.follows(ctx, userID, skip, limit, s.profiles.Followers)
}

func (s *ProfileService) Following(ctx context.Context, userID uuid.UUID, skip, limit int) (*FollowPage, error) {
	return s.follows(ctx, userID, skip, limit, s.profiles.Following)
}

type SearchPage struct {
	Items []models.UserSearchResult `json:"users"`
	Total int                       `json:"total"`
	Skip  int                       `json:"skip"`
	Limit int                       `json:"limit"`
	Query string                    `json:"query"`
}

func (s *ProfileService) SearchUsers(ctx context.Context, callerID uuid.UUID, query string, skip, limit int) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQuery {
		return nil, app_errors.ErrSearchQueryTooShort
	}
	items, total, err := s.profiles.SearchUsers(ctx, callerID, query, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].AvatarURL = s.media.URL(ctx, items[i].AvatarURL)
	}
	return &SearchPage{Items: items, Total: total, Skip: skip, Limit: limit, Query: query}, nil
}
