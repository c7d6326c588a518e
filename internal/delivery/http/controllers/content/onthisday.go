package content

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
)

func (h *ContentHandler) CreateOnThisDay(c *gin.Context) {
	var uploads httputil.Uploads
	defer uploads.Close()

	date, err := formDate(c, "date")
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	title, desc := httputil.FormString(c, "title"), httputil.FormString(c, "short_desc")
	if date == nil || title == nil || desc == nil {
		httputil.BadRequest(c, app_errors.ErrMissingField)
		return
	}
	storyID, err := httputil.FormUUID(c, "story_id")
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	image, err := uploads.File(c, "image_file")
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}

	event, err := h.service.CreateOnThisDay(c.Request.Context(), content.OnThisDayInput{
		Date:      *date,
		Title:     strings.TrimSpace(*title),
		ShortDesc: strings.TrimSpace(*desc),
		StoryID:   storyID,
		Image:     image,
	})
	if err != nil {
		httputil.Fail(c, h.log, "error creating on this day event", err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *ContentHandler) OnThisDayByDate(c *gin.Context) {
	date, err := time.Parse(content.DateLayout, c.Param("date"))
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	event, err := h.service.OnThisDayByDate(c.Request.Context(), date)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving on this day event", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *ContentHandler) OnThisDayToday(c *gin.Context) {
	event, err := h.service.OnThisDayToday(c.Request.Context())
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving today's event", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *ContentHandler) OnThisDayList(c *gin.Context) {
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.OnThisDayList(c.Request.Context(), skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing on this day events", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContentHandler) DeleteOnThisDay(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "event_id")
	if !ok {
		return
	}
	if err := h.service.DeleteOnThisDay(c.Request.Context(), id); err != nil {
		httputil.Fail(c, h.log, "error deleting on this day event", err)
		return
	}
	c.Status(http.StatusNoContent)
}
