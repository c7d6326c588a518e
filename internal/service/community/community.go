package community

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	msgJoined        = "Successfully joined the community"
	msgAlreadyMember = "You are already a member of this community"
	msgLeft          = "Successfully left the community"
	msgMember        = "You are a member of this community"
	msgNotMember     = "You are not a member of this community"
)

type CommunityRepo interface {
	CreateCommunity(ctx context.Context, c models.Community) (*models.Community, error)
	Community(ctx context.Context, viewerID, id uuid.UUID) (*models.Community, error)
	Communities(ctx context.Context, viewerID uuid.UUID, skip, limit int) ([]models.Community, error)
	MyCommunities(ctx context.Context, userID uuid.UUID) ([]models.Community, error)
	UpdateCommunity(ctx context.Context, viewerID, id uuid.UUID, upd models.CommunityUpdate) (*models.Community, []string, error)
	DeleteCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error)
	Join(ctx context.Context, userID, communityID uuid.UUID) (bool, error)
	Leave(ctx context.Context, userID, communityID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, userID, communityID uuid.UUID) (bool, error)
	Members(ctx context.Context, communityID uuid.UUID, skip, limit int) ([]models.CommunityMember, error)
}

type PostRepo interface {
	CreatePost(ctx context.Context, p models.Post) (*models.Post, error)
	Post(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Posts(ctx context.Context, communityID *uuid.UUID, skip, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.Post, string, error)
	DeletePost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	VotePost(ctx context.Context, id uuid.UUID, voteType int) (*models.Post, error)
	CreateComment(ctx context.Context, c models.Comment) (*models.Comment, error)
	Comment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Comments(ctx context.Context, postID uuid.UUID, skip, limit int) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id uuid.UUID, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	VoteComment(ctx context.Context, id uuid.UUID, voteType int) (*models.Comment, error)
}

type ReportRepo interface {
	ItemExists(ctx context.Context, reportType string, id uuid.UUID) (bool, error)
	CreateReport(ctx context.Context, r models.Report) (*models.Report, error)
	Report(ctx context.Context, id uuid.UUID) (*models.Report, error)
	Reports(ctx context.Context, f models.ReportFilter) ([]models.Report, error)
	ReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error)
	UpdateReport(ctx context.Context, id, adminID uuid.UUID, upd models.ReportUpdate, at time.Time) (*models.Report, error)
}

// Actor is the authenticated caller of a community operation.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

func (a Actor) owns(creator uuid.UUID) bool {
	return a.Admin || a.ID == creator
}

type CommunityService struct {
	log         logger.Log
	communities CommunityRepo
	posts       PostRepo
	reports     ReportRepo
	media       *media.Store
	now         func() time.Time
}

func NewCommunityService(l logger.Log, c CommunityRepo, p PostRepo, r ReportRepo, m *media.Store) *CommunityService {
	return &CommunityService{log: l, communities: c, posts: p, reports: r, media: m, now: time.Now}
}

type CommunityInput struct {
	Name        *string
	Description *string
	Topics      []string
	Banner      *models.Upload
	Icon        *models.Upload
}

func (s *CommunityService) withMedia(ctx context.Context, c *models.Community) *models.Community {
	c.BannerURL = s.media.URL(ctx, c.BannerKey)
	c.IconURL = s.media.URL(ctx, c.IconKey)
	return c
}

func (s *CommunityService) withMediaAll(ctx context.Context, list []models.Community) []models.Community {
	for i := range list {
		s.withMedia(ctx, &list[i])
	}
	return list
}

// putImages uploads banner and icon, removing the banner when the icon fails.
func (s *CommunityService) putImages(ctx context.Context, in CommunityInput) (banner, icon *string, err error) {
	if banner, err = s.media.PutImage(ctx, media.PrefixCommunityBanners, in.Banner); err != nil {
		return nil, nil, err
	}
	if icon, err = s.media.PutImage(ctx, media.PrefixCommunityIcons, in.Icon); err != nil {
		s.media.DiscardNew(ctx, banner)
		return nil, nil, err
	}
	return banner, icon, nil
}

func (s *CommunityService) CreateCommunity(ctx context.Context, actor Actor, in CommunityInput) (*models.Community, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, app_errors.ErrMissingField
	}
	banner, icon, err := s.putImages(ctx, in)
	if err != nil {
		return nil, err
	}

	c := models.Community{
		Name:      strings.TrimSpace(*in.Name),
		Topics:    in.Topics,
		BannerKey: models.DefaultCommunityBanner,
		IconKey:   models.DefaultCommunityIcon,
		CreatedBy: actor.ID,
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if banner != nil {
		c.BannerKey = *banner
	}
	if icon != nil {
		c.IconKey = *icon
	}

	created, err := s.communities.CreateCommunity(ctx, c)
	if err != nil {
		s.media.DiscardNew(ctx, banner, icon)
		return nil, err
	}
	s.log.Info("community created", "community_id", created.ID, "created_by", actor.ID)
	return s.withMedia(ctx, created), nil
}

func (s *CommunityService) Community(ctx context.Context, viewerID, id uuid.UUID) (*models.Community, error) {
	c, err := s.communities.Community(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	return s.withMedia(ctx, c), nil
}

func (s *CommunityService) Communities(ctx context.Context, viewerID uuid.UUID, skip, limit int) ([]models.Community, error) {
	list, err := s.communities.Communities(ctx, viewerID, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.withMediaAll(ctx, list), nil
}

func (s *CommunityService) MyCommunities(ctx context.Context, userID uuid.UUID) ([]models.Community, error) {
	list, err := s.communities.MyCommunities(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withMediaAll(ctx, list), nil
}

func (s *CommunityService) UpdateCommunity(ctx context.Context, actor Actor, id uuid.UUID, in CommunityInput) (*models.Community, error) {
	if in.Name == nil && in.Description == nil && in.Topics == nil && in.Banner == nil && in.Icon == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	c, err := s.communities.Community(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(c.CreatedBy) {
		return nil, app_errors.ErrForbidden
	}
	banner, icon, err := s.putImages(ctx, in)
	if err != nil {
		return nil, err
	}

	upd := models.CommunityUpdate{
		Name:        in.Name,
		Description: in.Description,
		Topics:      in.Topics,
		BannerKey:   banner,
		IconKey:     icon,
	}
	updated, replaced, err := s.communities.UpdateCommunity(ctx, actor.ID, id, upd)
	if err != nil {
		s.media.DiscardNew(ctx, banner, icon)
		return nil, err
	}
	s.media.Discard(ctx, replaced...)
	return s.withMedia(ctx, updated), nil
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := s.communities.Community(ctx, actor.ID, id)
	if err != nil {
		return err
	}
	if !actor.owns(c.CreatedBy) {
		return app_errors.ErrForbidden
	}
	deleted, err := s.communities.DeleteCommunity(ctx, id)
	if err != nil {
		return err
	}
	s.media.Discard(ctx, deleted.BannerKey, deleted.IconKey)
	s.log.Info("community deleted", "community_id", id, "by", actor.ID)
	return nil
}

// exists returns ErrCommunityNotFound for an unknown community.
func (s *CommunityService) exists(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.communities.Community(ctx, userID, id)
	return err
}

func (s *CommunityService) Join(ctx context.Context, userID, id uuid.UUID) (*models.MembershipStatus, error) {
	if err := s.exists(ctx, userID, id); err != nil {
		return nil, err
	}
	joined, err := s.communities.Join(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !joined {
		return &models.MembershipStatus{Message: msgAlreadyMember, IsMember: true}, nil
	}
	return &models.MembershipStatus{Message: msgJoined, IsMember: true}, nil
}

func (s *CommunityService) Leave(ctx context.Context, userID, id uuid.UUID) (*models.MembershipStatus, error) {
	if err := s.exists(ctx, userID, id); err != nil {
		return nil, err
	}
	left, err := s.communities.Leave(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !left {
		return &models.MembershipStatus{Message: msgNotMember}, nil
	}
	return &models.MembershipStatus{Message: msgLeft}, nil
}

func (s *CommunityService) MembershipStatus(ctx context.Context, userID, id uuid.UUID) (*models.MembershipStatus, error) {
	if err := s.exists(ctx, userID, id); err != nil {
		return nil, err
	}
	member, err := s.communities.IsMember(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if member {
		return &models.MembershipStatus{Message: msgMember, IsMember: true}, nil
	}
	return &models.MembershipStatus{Message: msgNotMember}, nil
}

func (s *CommunityService) Members(ctx context.Context, id uuid.UUID, skip, limit int) ([]models.CommunityMember, error) {
	if err := s.exists(ctx, uuid.Nil, id); err != nil {
		return nil, err
	}
	return s.communities.Members(ctx, id, skip, limit)
}
