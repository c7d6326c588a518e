package content

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
)

type CharacterInput struct {
	Name    *string
	Persona *string
	Avatar  *models.Upload
}

func (s *ContentService) withAvatar(ctx context.Context, c *models.Character) *models.Character {
	c.AvatarURL = s.media.URL(ctx, c.AvatarKey)
	return c
}

func (s *ContentService) CreateCharacter(ctx context.Context, in CharacterInput) (*models.Character, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, app_errors.ErrMissingField
	}
	avatar, err := s.media.PutImage(ctx, media.PrefixCharacters, in.Avatar)
	if err != nil {
		return nil, err
	}

	c := models.Character{Name: strings.TrimSpace(*in.Name)}
	if in.Persona != nil {
		c.Persona = *in.Persona
	}
	if avatar != nil {
		c.AvatarKey = *avatar
	}
	created, err := s.characters.CreateCharacter(ctx, c)
	if err != nil {
		s.media.DiscardNew(ctx, avatar)
		return nil, err
	}
	return s.withAvatar(ctx, created), nil
}

func (s *ContentService) Character(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	c, err := s.characters.Character(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAvatar(ctx, c), nil
}

func (s *ContentService) Characters(ctx context.Context, skip, limit int) ([]models.Character, error) {
	list, err := s.characters.Characters(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.withAvatar(ctx, &list[i])
	}
	return list, nil
}

func (s *ContentService) UpdateCharacter(ctx context.Context, id uuid.UUID, in CharacterInput) (*models.Character, error) {
	if in.Name == nil && in.Persona == nil && in.Avatar == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	avatar, err := s.media.PutImage(ctx, media.PrefixCharacters, in.Avatar)
	if err != nil {
		return nil, err
	}
	updated, replaced, err := s.characters.UpdateCharacter(ctx, id, in.Name, in.Persona, avatar)
	if err != nil {
		s.media.DiscardNew(ctx, avatar)
		return nil, err
	}
	s.media.Discard(ctx, replaced)
	return s.withAvatar(ctx, updated), nil
}

func (s *ContentService) DeleteCharacter(ctx context.Context, id uuid.UUID) error {
	c, err := s.characters.DeleteCharacter(ctx, id)
	if err != nil {
		return err
	}
	s.media.Discard(ctx, c.AvatarKey)
	return nil
}
