package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
)

func characterInput(c *gin.Context, uploads *httputil.Uploads) (content.CharacterInput, error) {
	avatar, err := uploads.File(c, "avatar_file")
	if err != nil {
		return content.CharacterInput{}, err
	}
	return content.CharacterInput{
		Name:    httputil.FormString(c, "name"),
		Persona: httputil.FormString(c, "persona"),
		Avatar:  avatar,
	}, nil
}

func (h *ContentHandler) CreateCharacter(c *gin.Context) {
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := characterInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	ch, err := h.service.CreateCharacter(c.Request.Context(), in)
	if err != nil {
		httputil.Fail(c, h.log, "error creating character", err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *ContentHandler) Character(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "character_id")
	if !ok {
		return
	}
	ch, err := h.service.Character(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving character", err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ContentHandler) Characters(c *gin.Context) {
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Characters(c.Request.Context(), skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing characters", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContentHandler) UpdateCharacter(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "character_id")
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := characterInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	ch, err := h.service.UpdateCharacter(c.Request.Context(), id, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating character", err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ContentHandler) DeleteCharacter(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "character_id")
	if !ok {
		return
	}
	if err := h.service.DeleteCharacter(c.Request.Context(), id); err != nil {
		httputil.Fail(c, h.log, "error deleting character", err)
		return
	}
	c.Status(http.StatusNoContent)
}
