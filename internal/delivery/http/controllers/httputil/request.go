package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Caller returns the authenticated user id or answers 401.
func Caller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

// UUIDParam parses a path parameter or answers 400.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", app_errors.ErrInvalidPagination, name)
	}
	return v, nil
}

// Page reads skip and limit from the query or answers 400.
func Page(c *gin.Context, defLimit int) (skip, limit int, ok bool) {
	skip, err := queryInt(c, "skip", 0)
	if err == nil {
		limit, err = queryInt(c, "limit", defLimit)
	}
	if err == nil && (skip < 0 || limit < 1 || limit > MaxLimit) {
		err = app_errors.ErrInvalidPagination
	}
	if err != nil {
		BadRequest(c, err)
		return 0, 0, false
	}
	return skip, limit, true
}

// FormString returns a pointer to a submitted form value, nil when the field is absent.
func FormString(c *gin.Context, name string) *string {
	v, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	return &v
}

func FormInt(c *gin.Context, name string) (*int, error) {
	v := FormString(c, name)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

func FormUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	v := FormString(c, name)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*v))
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &id, nil
}

// FormJSON decodes a JSON-encoded form field into dst. It reports false when the field is absent.
func FormJSON(c *gin.Context, name string, dst any) (bool, error) {
	v := FormString(c, name)
	if v == nil || strings.TrimSpace(*v) == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(*v), dst); err != nil {
		return false, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return true, nil
}

// Uploads holds files opened from a multipart form until the handler finishes.
type Uploads struct {
	closers []func() error
}

// File opens an optional multipart file. A missing field yields nil.
func (u *Uploads) File(c *gin.Context, name string) (*models.Upload, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", name, err)
	}
	u.closers = append(u.closers, f.Close)
	return &models.Upload{
		Filename:    fh.Filename,
		Reader:      f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

func (u *Uploads) Close() {
	for _, c := range u.closers {
		_ = c()
	}
}
