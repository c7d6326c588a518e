package community

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/service/community"
)

func postInput(c *gin.Context, uploads *httputil.Uploads) (community.PostInput, error) {
	var in community.PostInput
	image, err := uploads.File(c, "image_file")
	if err != nil {
		return in, err
	}
	in.Image = image
	in.Title = httputil.FormString(c, "title")
	in.Body = httputil.FormString(c, "body")
	return in, nil
}

func (h *CommunityHandler) CreatePost(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	communityID, err := httputil.FormUUID(c, "community_id")
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if communityID == nil {
		httputil.BadRequest(c, app_errors.ErrMissingField)
		return
	}
	in, err := postInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	in.CommunityID = *communityID

	post, err := h.service.CreatePost(c.Request.Context(), a, in)
	if err != nil {
		httputil.Fail(c, h.log, "error creating post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *CommunityHandler) Post(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "post_id")
	if !ok {
		return
	}
	post, err := h.service.Post(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *CommunityHandler) Posts(c *gin.Context) {
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	var communityID *uuid.UUID
	if raw := c.Query("community_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid community_id"})
			return
		}
		communityID = &id
	}
	list, err := h.service.Posts(c.Request.Context(), communityID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing posts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) UpdatePost(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "post_id")
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := postInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	post, err := h.service.UpdatePost(c.Request.Context(), a, id, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *CommunityHandler) DeletePost(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "post_id")
	if !ok {
		return
	}
	if err := h.service.DeletePost(c.Request.Context(), a, id); err != nil {
		httputil.Fail(c, h.log, "error deleting post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type votePostRequest struct {
	PostID   uuid.UUID `json:"post_id" binding:"required"`
	VoteType int       `json:"vote_type" binding:"required,vote"`
}

func (h *CommunityHandler) VotePost(c *gin.Context) {
	var input votePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	post, err := h.service.VotePost(c.Request.Context(), input.PostID, input.VoteType)
	if err != nil {
		httputil.Fail(c, h.log, "error voting on post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type commentRequest struct {
	PostID  uuid.UUID `json:"post_id" binding:"required"`
	Comment string    `json:"comment" binding:"required"`
}

func (h *CommunityHandler) CreateComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input commentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	comment, err := h.service.CreateComment(c.Request.Context(), a, input.PostID, input.Comment)
	if err != nil {
		httputil.Fail(c, h.log, "error creating comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommunityHandler) Comments(c *gin.Context) {
	postID, ok := httputil.UUIDParam(c, "post_id")
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Comments(c.Request.Context(), postID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing comments", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (h *CommunityHandler) UpdateComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "comment_id")
	if !ok {
		return
	}
	var input updateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	comment, err := h.service.UpdateComment(c.Request.Context(), a, id, input.Comment)
	if err != nil {
		httputil.Fail(c, h.log, "error updating comment", err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "comment_id")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), a, id); err != nil {
		httputil.Fail(c, h.log, "error deleting comment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type voteCommentRequest struct {
	CommentID uuid.UUID `json:"comment_id" binding:"required"`
	VoteType  int       `json:"vote_type" binding:"required,vote"`
}

func (h *CommunityHandler) VoteComment(c *gin.Context) {
	var input voteCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	comment, err := h.service.VoteComment(c.Request.Context(), input.CommentID, input.VoteType)
	if err != nil {
		httputil.Fail(c, h.log, "error voting on comment", err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
