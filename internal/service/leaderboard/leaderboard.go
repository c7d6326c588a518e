package leaderboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/internal/service/profile"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const TopSize = 10

type rankRepo interface {
	TopByPoints(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	RankStats(ctx context.Context, userID uuid.UUID) (*models.RankStats, error)
	CompletedQuizzes(ctx context.Context, userID uuid.UUID) (int, error)
}

type topCache interface {
	Top(ctx context.Context) ([]models.LeaderboardEntry, bool, error)
	SetTop(ctx context.Context, entries []models.LeaderboardEntry) error
}

type LeaderboardService struct {
	log   logger.Log
	repo  rankRepo
	cache topCache
	media *media.Store
}

func NewLeaderboardService(l logger.Log, r rankRepo, c topCache, m *media.Store) *LeaderboardService {
	return &LeaderboardService{log: l, repo: r, cache: c, media: m}
}

type Board struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	UserRank    int                       `json:"user_rank"`
}

type Points struct {
	Points           int `json:"points"`
	CompletedQuizzes int `json:"completed_quizzes"`
}

func (s *LeaderboardService) top(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, ok, err := s.cache.Top(ctx)
	if err != nil {
		s.log.ErrorErr("leaderboard cache read", err)
	}
	if ok {
		return entries, nil
	}

	entries, err = s.repo.TopByPoints(ctx, TopSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	if err := s.cache.SetTop(ctx, entries); err != nil {
		s.log.ErrorErr("leaderboard cache write", err)
	}
	return entries, nil
}

// Top returns the ten highest scorers and the caller's own rank.
func (s *LeaderboardService) Top(ctx context.Context, userID uuid.UUID) (*Board, error) {
	entries, err := s.top(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.LeaderboardEntry, len(entries))
	for i, e := range entries {
		e.AvatarURL = s.media.URL(ctx, e.AvatarURL)
		out[i] = e
	}

	stats, err := s.repo.RankStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Board{Leaderboard: out, UserRank: stats.Rank}, nil
}

func (s *LeaderboardService) Rank(ctx context.Context, userID uuid.UUID) (*models.RankStats, error) {
	stats, err := s.repo.RankStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Percentile = profile.Percentile(stats.Rank, stats.TotalUsers)
	return stats, nil
}

func (s *LeaderboardService) Points(ctx context.Context, userID uuid.UUID) (*Points, error) {
	stats, err := s.repo.RankStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.repo.CompletedQuizzes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Points{Points: stats.Points, CompletedQuizzes: quizzes}, nil
}
