package media

import (
	"context"
	"strings"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	MaxImageSize = 10 << 20
	MaxVideoSize = 500 << 20
)

// Object key prefixes per kind of media.
const (
	PrefixAvatars          = "avatars"
	PrefixCharacters       = "characters"
	PrefixTimelines        = "timelines"
	PrefixStoryThumbnails  = "stories/thumbnails"
	PrefixStoryVideos      = "stories/videos"
	PrefixOnThisDay        = "onthisday"
	PrefixGames            = "games"
	PrefixCommunityBanners = "communities/banners"
	PrefixCommunityIcons   = "communities/icons"
	PrefixPosts            = "posts"
)

type Storage interface {
	Upload(ctx context.Context, prefix string, f models.Upload) (string, error)
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

func CheckImage(f models.Upload) error {
	if f.Size > MaxImageSize {
		return app_errors.ErrFileSize
	}
	if !strings.HasPrefix(f.DetectContentType(), "image/") {
		return app_errors.ErrNotImage
	}
	return nil
}

func CheckVideo(f models.Upload) error {
	if f.Size > MaxVideoSize {
		return app_errors.ErrFileSize
	}
	if !strings.HasPrefix(f.DetectContentType(), "video/") {
		return app_errors.ErrNotVideo
	}
	return nil
}

// Store validates uploads before they reach storage and keeps URL failures out of responses.
type Store struct {
	log     logger.Log
	storage Storage
}

func NewStore(l logger.Log, s Storage) *Store {
	return &Store{log: l, storage: s}
}

func (s *Store) put(ctx context.Context, prefix string, f *models.Upload, check func(models.Upload) error) (*string, error) {
	if f == nil {
		return nil, nil
	}
	if err := check(*f); err != nil {
		return nil, err
	}
	key, err := s.storage.Upload(ctx, prefix, *f)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// PutImage uploads an optional image. A nil upload yields a nil key.
func (s *Store) PutImage(ctx context.Context, prefix string, f *models.Upload) (*string, error) {
	return s.put(ctx, prefix, f, CheckImage)
}

// PutVideo uploads an optional video. A nil upload yields a nil key.
func (s *Store) PutVideo(ctx context.Context, prefix string, f *models.Upload) (*string, error) {
	return s.put(ctx, prefix, f, CheckVideo)
}

// URL resolves a key for a response. Failures are logged and produce an empty URL.
func (s *Store) URL(ctx context.Context, key string) string {
	u, err := s.storage.URL(ctx, key)
	if err != nil {
		s.log.ErrorErr("presign media", err, "key", key)
		return ""
	}
	return u
}

// Discard removes objects that are no longer referenced.
func (s *Store) Discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			s.log.ErrorErr("delete media", err, "key", key)
		}
	}
}

// DiscardNew removes a just-uploaded object after a failed write.
func (s *Store) DiscardNew(ctx context.Context, keys ...*string) {
	for _, k := range keys {
		if k != nil {
			s.Discard(ctx, *k)
		}
	}
}
