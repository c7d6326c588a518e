package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
)

func timelineInput(c *gin.Context, uploads *httputil.Uploads) (content.TimelineInput, error) {
	var in content.TimelineInput
	var err error
	if in.MainCharacterID, err = httputil.FormUUID(c, "main_character_id"); err != nil {
		return in, err
	}
	if _, err = httputil.FormJSON(c, "categories_json", &in.Categories); err != nil {
		return in, err
	}
	if in.Thumbnail, err = uploads.File(c, "thumbnail_file"); err != nil {
		return in, err
	}
	in.Title = httputil.FormString(c, "title")
	in.YearRange = httputil.FormString(c, "year_range")
	in.Overview = httputil.FormString(c, "overview")
	return in, nil
}

func (h *ContentHandler) CreateTimeline(c *gin.Context) {
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := timelineInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	t, err := h.service.CreateTimeline(c.Request.Context(), in)
	if err != nil {
		httputil.Fail(c, h.log, "error creating timeline", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *ContentHandler) Timelines(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Timelines(c.Request.Context(), userID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing timelines", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type filterRequest struct {
	Categories []string `json:"categories"`
}

func (h *ContentHandler) FilterTimelines(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input filterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	list, err := h.service.FilterTimelines(c.Request.Context(), userID, input.Categories)
	if err != nil {
		httputil.Fail(c, h.log, "error filtering timelines", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContentHandler) Timeline(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "timeline_id")
	if !ok {
		return
	}
	view, err := h.service.Timeline(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving timeline", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ContentHandler) UpdateTimeline(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "timeline_id")
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := timelineInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	t, err := h.service.UpdateTimeline(c.Request.Context(), id, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating timeline", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ContentHandler) DeleteTimeline(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "timeline_id")
	if !ok {
		return
	}
	if err := h.service.DeleteTimeline(c.Request.Context(), id); err != nil {
		httputil.Fail(c, h.log, "error deleting timeline", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) TimelineStories(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "timeline_id")
	if !ok {
		return
	}
	list, err := h.service.TimelineStories(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error listing timeline stories", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContentHandler) ToggleBookmark(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "timeline_id")
	if !ok {
		return
	}
	bookmarked, err := h.service.ToggleBookmark(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error toggling bookmark", err)
		return
	}
	msg := "Timeline removed from bookmarks"
	if bookmarked {
		msg = "Timeline bookmarked"
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked, "message": msg})
}

func (h *ContentHandler) IsBookmarked(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "timeline_id")
	if !ok {
		return
	}
	bookmarked, err := h.service.IsBookmarked(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error checking bookmark", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

func (h *ContentHandler) Bookmarks(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	list, err := h.service.Bookmarks(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error listing bookmarks", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
