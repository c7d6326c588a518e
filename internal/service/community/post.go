package community

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
)

type PostInput struct {
	CommunityID uuid.UUID
	Title       *string
	Body        *string
	Image       *models.Upload
}

func validVote(v int) bool {
	return v == models.VoteUp || v == models.VoteDown
}

func (s *CommunityService) withImage(ctx context.Context, p *models.Post) *models.Post {
	p.ImageURL = s.media.URL(ctx, p.ImageKey)
	return p
}

func (s *CommunityService) CreatePost(ctx context.Context, actor Actor, in PostInput) (*models.Post, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, app_errors.ErrMissingField
	}
	if err := s.exists(ctx, actor.ID, in.CommunityID); err != nil {
		return nil, err
	}
	image, err := s.media.PutImage(ctx, media.PrefixPosts, in.Image)
	if err != nil {
		return nil, err
	}

	p := models.Post{CommunityID: in.CommunityID, Title: strings.TrimSpace(*in.Title), CreatedBy: actor.ID}
	if in.Body != nil {
		p.Body = *in.Body
	}
	if image != nil {
		p.ImageKey = *image
	}
	created, err := s.posts.CreatePost(ctx, p)
	if err != nil {
		s.media.DiscardNew(ctx, image)
		return nil, err
	}
	return s.withImage(ctx, created), nil
}

func (s *CommunityService) Post(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImage(ctx, p), nil
}

// Posts lists newest first. A nil community lists across all communities.
func (s *CommunityService) Posts(ctx context.Context, communityID *uuid.UUID, skip, limit int) ([]models.Post, error) {
	list, err := s.posts.Posts(ctx, communityID, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.withImage(ctx, &list[i])
	}
	return list, nil
}

func (s *CommunityService) UpdatePost(ctx context.Context, actor Actor, id uuid.UUID, in PostInput) (*models.Post, error) {
	if in.Title == nil && in.Body == nil && in.Image == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	p, err := s.posts.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(p.CreatedBy) {
		return nil, app_errors.ErrForbidden
	}
	image, err := s.media.PutImage(ctx, media.PrefixPosts, in.Image)
	if err != nil {
		return nil, err
	}

	updated, replaced, err := s.posts.UpdatePost(ctx, id, models.PostUpdate{Title: in.Title, Body: in.Body, ImageKey: image})
	if err != nil {
		s.media.DiscardNew(ctx, image)
		return nil, err
	}
	s.media.Discard(ctx, replaced)
	return s.withImage(ctx, updated), nil
}

func (s *CommunityService) DeletePost(ctx context.Context, actor Actor, id uuid.UUID) error {
	p, err := s.posts.Post(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(p.CreatedBy) {
		return app_errors.ErrForbidden
	}
	deleted, err := s.posts.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	s.media.Discard(ctx, deleted.ImageKey)
	return nil
}

func (s *CommunityService) VotePost(ctx context.Context, id uuid.UUID, voteType int) (*models.Post, error) {
	if !validVote(voteType) {
		return nil, app_errors.ErrInvalidVote
	}
	p, err := s.posts.VotePost(ctx, id, voteType)
	if err != nil {
		return nil, err
	}
	return s.withImage(ctx, p), nil
}

func (s *CommunityService) CreateComment(ctx context.Context, actor Actor, postID uuid.UUID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, app_errors.ErrMissingField
	}
	return s.posts.CreateComment(ctx, models.Comment{PostID: postID, CommentedBy: actor.ID, Comment: text})
}

func (s *CommunityService) Comments(ctx context.Context, postID uuid.UUID, skip, limit int) ([]models.Comment, error) {
	if _, err := s.posts.Post(ctx, postID); err != nil {
		return nil, err
	}
	return s.posts.Comments(ctx, postID, skip, limit)
}

func (s *CommunityService) UpdateComment(ctx context.Context, actor Actor, id uuid.UUID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, app_errors.ErrMissingField
	}
	c, err := s.posts.Comment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(c.CommentedBy) {
		return nil, app_errors.ErrForbidden
	}
	return s.posts.UpdateComment(ctx, id, text)
}

func (s *CommunityService) DeleteComment(ctx context.Context, actor Actor, id uuid.UUID) error {
	c, err := s.posts.Comment(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(c.CommentedBy) {
		return app_errors.ErrForbidden
	}
	return s.posts.DeleteComment(ctx, id)
}

func (s *CommunityService) VoteComment(ctx context.Context, id uuid.UUID, voteType int) (*models.Comment, error) {
	if !validVote(voteType) {
		return nil, app_errors.ErrInvalidVote
	}
	return s.posts.VoteComment(ctx, id, voteType)
}
