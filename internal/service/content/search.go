package content

import (
	"context"
	"strings"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const (
	SearchMinLength = 2
	SearchSize      = 20
)

func (s *ContentService) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < SearchMinLength {
		return nil, app_errors.ErrSearchQueryTooShort
	}
	return s.search.Search(ctx, query, SearchSize)
}
