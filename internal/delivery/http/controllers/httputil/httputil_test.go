package httputil

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatus(t *testing.T) {
	for err, want := range map[error]int{
		app_errors.ErrStoryNotFound:                             http.StatusNotFound,
		fmt.Errorf("wrapped: %w", app_errors.ErrCommunityNotFound): http.StatusNotFound,
		app_errors.ErrForbidden:                                 http.StatusForbidden,
		app_errors.ErrFileSize:                                  http.StatusRequestEntityTooLarge,
		app_errors.ErrInvalidQuiz:                               http.StatusBadRequest,
		app_errors.ErrTokenExpired:                              http.StatusUnauthorized,
		errors.New("boom"):                                      http.StatusInternalServerError,
	} {
		assert.Equal(t, want, Status(err), err.Error())
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Fail(c, logger.Discard(), "op", errors.New("db password leaked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Len(t, c.Errors, 1)
}

func TestPage(t *testing.T) {
	run := func(query string) (int, int, bool, int) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		skip, limit, ok := Page(c, 20)
		return skip, limit, ok, w.Code
	}

	skip, limit, ok, _ := run("")
	assert.True(t, ok)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 20, limit)

	skip, limit, ok, _ = run("skip=5&limit=7")
	assert.True(t, ok)
	assert.Equal(t, 5, skip)
	assert.Equal(t, 7, limit)

	for _, q := range []string{"skip=-1", "limit=0", "limit=101", "skip=x"} {
		_, _, ok, code := run(q)
		assert.False(t, ok, q)
		assert.Equal(t, http.StatusBadRequest, code, q)
	}
}

func TestMultipartHelpers(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "Rome"))
	require.NoError(t, mw.WriteField("story_type", "3"))
	require.NoError(t, mw.WriteField("categories_json", `["ancient","europe"]`))
	fw, err := mw.CreateFormFile("thumbnail", "rome.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	assert.Equal(t, "Rome", *FormString(c, "title"))
	assert.Nil(t, FormString(c, "overview"))

	n, err := FormInt(c, "story_type")
	require.NoError(t, err)
	assert.Equal(t, 3, *n)

	var categories []string
	present, err := FormJSON(c, "categories_json", &categories)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, []string{"ancient", "europe"}, categories)

	var uploads Uploads
	defer uploads.Close()
	up, err := uploads.File(c, "thumbnail")
	require.NoError(t, err)
	assert.Equal(t, "rome.png", up.Filename)
	assert.EqualValues(t, len("png-bytes"), up.Size)

	missing, err := uploads.File(c, "video")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
