package community

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/community"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, actor community.Actor, in community.CommunityInput) (*models.Community, error)
	Community(ctx context.Context, viewerID, id uuid.UUID) (*models.Community, error)
	Communities(ctx context.Context, viewerID uuid.UUID, skip, limit int) ([]models.Community, error)
	MyCommunities(ctx context.Context, userID uuid.UUID) ([]models.Community, error)
	UpdateCommunity(ctx context.Context, actor community.Actor, id uuid.UUID, in community.CommunityInput) (*models.Community, error)
	DeleteCommunity(ctx context.Context, actor community.Actor, id uuid.UUID) error
	Join(ctx context.Context, userID, id uuid.UUID) (*models.MembershipStatus, error)
	Leave(ctx context.Context, userID, id uuid.UUID) (*models.MembershipStatus, error)
	MembershipStatus(ctx context.Context, userID, id uuid.UUID) (*models.MembershipStatus, error)
	Members(ctx context.Context, id uuid.UUID, skip, limit int) ([]models.CommunityMember, error)

	CreatePost(ctx context.Context, actor community.Actor, in community.PostInput) (*models.Post, error)
	Post(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Posts(ctx context.Context, communityID *uuid.UUID, skip, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, actor community.Actor, id uuid.UUID, in community.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, actor community.Actor, id uuid.UUID) error
	VotePost(ctx context.Context, id uuid.UUID, voteType int) (*models.Post, error)
	CreateComment(ctx context.Context, actor community.Actor, postID uuid.UUID, text string) (*models.Comment, error)
	Comments(ctx context.Context, postID uuid.UUID, skip, limit int) ([]models.Comment, error)
	UpdateComment(ctx context.Context, actor community.Actor, id uuid.UUID, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor community.Actor, id uuid.UUID) error
	VoteComment(ctx context.Context, id uuid.UUID, voteType int) (*models.Comment, error)

	CreateReport(ctx context.Context, reporterID uuid.UUID, in community.ReportInput) (*models.Report, error)
	Reports(ctx context.Context, actor community.Actor, f models.ReportFilter) ([]models.Report, error)
	UpdateReport(ctx context.Context, actor community.Actor, id uuid.UUID, upd models.ReportUpdate) (*models.Report, error)
	MyReports(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error)
}

type CommunityHandler struct {
	log     logger.Log
	service CommunityService
}

func NewCommunityHandler(l logger.Log, s CommunityService) *CommunityHandler {
	return &CommunityHandler{
		log:     l,
		service: s,
	}
}

func actor(c *gin.Context) (community.Actor, bool) {
	id, ok := httputil.Caller(c)
	if !ok {
		return community.Actor{}, false
	}
	return community.Actor{ID: id, Admin: middleware.IsAdmin(c)}, true
}

func communityInput(c *gin.Context, uploads *httputil.Uploads) (community.CommunityInput, error) {
	var in community.CommunityInput
	var err error
	if _, err = httputil.FormJSON(c, "topics", &in.Topics); err != nil {
		return in, err
	}
	if in.Banner, err = uploads.File(c, "banner_file"); err != nil {
		return in, err
	}
	if in.Icon, err = uploads.File(c, "icon_file"); err != nil {
		return in, err
	}
	in.Name = httputil.FormString(c, "name")
	in.Description = httputil.FormString(c, "description")
	return in, nil
}

func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := communityInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	created, err := h.service.CreateCommunity(c.Request.Context(), a, in)
	if err != nil {
		httputil.Fail(c, h.log, "error creating community", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CommunityHandler) Community(c *gin.Context) {
	viewerID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "community_id")
	if !ok {
		return
	}
	found, err := h.service.Community(c.Request.Context(), viewerID, id)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving community", err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *CommunityHandler) Communities(c *gin.Context) {
	viewerID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Communities(c.Request.Context(), viewerID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing communities", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) MyCommunities(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	list, err := h.service.MyCommunities(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error listing my communities", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "community_id")
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := communityInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	updated, err := h.service.UpdateCommunity(c.Request.Context(), a, id, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating community", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "community_id")
	if !ok {
		return
	}
	if err := h.service.DeleteCommunity(c.Request.Context(), a, id); err != nil {
		httputil.Fail(c, h.log, "error deleting community", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommunityHandler) membership(c *gin.Context, msg string,
	op func(context.Context, uuid.UUID, uuid.UUID) (*models.MembershipStatus, error)) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "community_id")
	if !ok {
		return
	}
	status, err := op(c.Request.Context(), userID, id)
	if err != nil {
		httputil.Fail(c, h.log, msg, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *CommunityHandler) Join(c *gin.Context) {
	h.membership(c, "error joining community", h.service.Join)
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	h.membership(c, "error leaving community", h.service.Leave)
}

func (h *CommunityHandler) MembershipStatus(c *gin.Context) {
	h.membership(c, "error checking membership", h.service.MembershipStatus)
}

func (h *CommunityHandler) Members(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "community_id")
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Members(c.Request.Context(), id, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing members", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
