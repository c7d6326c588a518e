package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

var statuses = []struct {
	status int
	errs   []error
}{
	{http.StatusNotFound, []error{
		app_errors.ErrUserNotFound, app_errors.ErrOTPNotFound, app_errors.ErrProfileNotFound,
		app_errors.ErrNotFollowing, app_errors.ErrCharacterNotFound, app_errors.ErrTimelineNotFound,
		app_errors.ErrStoryNotFound, app_errors.ErrOnThisDayNotFound, app_errors.ErrQuizNotFound,
		app_errors.ErrGameQuestionNotFound, app_errors.ErrGameOptionNotFound, app_errors.ErrCommunityNotFound,
		app_errors.ErrPostNotFound, app_errors.ErrCommentNotFound, app_errors.ErrReportNotFound,
	}},
	{http.StatusUnauthorized, []error{
		app_errors.ErrTokenExpired, app_errors.ErrTokenNotFound, app_errors.ErrUserInactive,
	}},
	{http.StatusForbidden, []error{app_errors.ErrForbidden}},
	{http.StatusRequestEntityTooLarge, []error{app_errors.ErrFileSize}},
	{http.StatusBadRequest, []error{
		app_errors.ErrUserExists, app_errors.ErrIncorrectPassword, app_errors.ErrPasswordTooShort,
		app_errors.ErrPasswordMismatch, app_errors.ErrOTPExpired, app_errors.ErrOTPInvalid,
		app_errors.ErrAlreadyVerified, app_errors.ErrNothingToUpdate, app_errors.ErrInvalidProfileField,
		app_errors.ErrSelfFollow, app_errors.ErrAlreadyFollowing, app_errors.ErrSearchQueryTooShort,
		app_errors.ErrNotImage, app_errors.ErrNotVideo, app_errors.ErrCharacterInUse,
		app_errors.ErrTimelineExists, app_errors.ErrInvalidStoryType, app_errors.ErrInvalidTimestamp,
		app_errors.ErrOnThisDayExists, app_errors.ErrQuizExists, app_errors.ErrInvalidQuestion,
		app_errors.ErrInvalidOption, app_errors.ErrInvalidQuiz, app_errors.ErrInvalidGameType,
		app_errors.ErrInvalidPagination, app_errors.ErrAlreadyReported, app_errors.ErrInvalidReport,
		app_errors.ErrInvalidVote, app_errors.ErrMissingField,
	}},
}

// Status maps a service error to its HTTP status. Unknown errors are 500.
func Status(err error) int {
	for _, s := range statuses {
		for _, e := range s.errs {
			if errors.Is(err, e) {
				return s.status
			}
		}
	}
	return http.StatusInternalServerError
}

// Fail writes the error response. Internal errors are logged and their text is not exposed.
func Fail(c *gin.Context, log logger.Log, msg string, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.ErrorErr(msg, err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
