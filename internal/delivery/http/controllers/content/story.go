package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
)

func storyInput(c *gin.Context, uploads *httputil.Uploads) (content.StoryInput, error) {
	var in content.StoryInput
	var err error
	if in.TimelineID, err = httputil.FormUUID(c, "timeline_id"); err != nil {
		return in, err
	}
	if in.StoryDate, err = formDate(c, "story_date"); err != nil {
		return in, err
	}
	if in.StoryType, err = httputil.FormInt(c, "story_type"); err != nil {
		return in, err
	}
	var timestamps []models.Timestamp
	present, err := httputil.FormJSON(c, "timestamps_json", &timestamps)
	if err != nil {
		return in, err
	}
	if present {
		if timestamps == nil {
			timestamps = []models.Timestamp{}
		}
		in.Timestamps = timestamps
	}
	if in.Thumbnail, err = uploads.File(c, "thumbnail_file"); err != nil {
		return in, err
	}
	if in.Video, err = uploads.File(c, "video_file"); err != nil {
		return in, err
	}
	in.Title = httputil.FormString(c, "title")
	in.Desc = httputil.FormString(c, "desc")
	return in, nil
}

func (h *ContentHandler) CreateStory(c *gin.Context) {
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := storyInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	view, err := h.service.CreateStory(c.Request.Context(), in)
	if err != nil {
		httputil.Fail(c, h.log, "error creating story", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *ContentHandler) Story(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	view, err := h.service.Story(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving story", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ContentHandler) Stories(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Stories(c.Request.Context(), userID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing stories", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContentHandler) UpdateStory(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := storyInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	view, err := h.service.UpdateStory(c.Request.Context(), id, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating story", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ContentHandler) DeleteStory(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	if err := h.service.DeleteStory(c.Request.Context(), id); err != nil {
		httputil.Fail(c, h.log, "error deleting story", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) ToggleLike(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	liked, likes, err := h.service.ToggleLike(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error toggling like", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": likes})
}

func (h *ContentHandler) IsLiked(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	liked, err := h.service.IsLiked(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error checking like", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}
