package community

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/community"
)

type reportRequest struct {
	ReportType     string    `json:"report_type" binding:"required,oneof=community post"`
	ReportedItemID uuid.UUID `json:"reported_item_id" binding:"required"`
	Reason         string    `json:"reason" binding:"required,report_reason"`
	Description    string    `json:"description"`
}

func (h *CommunityHandler) CreateReport(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input reportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	rep, err := h.service.CreateReport(c.Request.Context(), userID, community.ReportInput{
		ReportType:     input.ReportType,
		ReportedItemID: input.ReportedItemID,
		Reason:         input.Reason,
		Description:    input.Description,
	})
	if err != nil {
		httputil.Fail(c, h.log, "error creating report", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": community.ReportSubmittedMsg, "report_id": rep.ID})
}

func (h *CommunityHandler) Reports(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Reports(c.Request.Context(), a, models.ReportFilter{
		Status:     c.Query("status"),
		ReportType: c.Query("report_type"),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		httputil.Fail(c, h.log, "error listing reports", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateReportRequest struct {
	Status     *string `json:"status" binding:"omitempty,report_status"`
	AdminNotes *string `json:"admin_notes"`
}

func (h *CommunityHandler) UpdateReport(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := httputil.UUIDParam(c, "report_id")
	if !ok {
		return
	}
	var input updateReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	rep, err := h.service.UpdateReport(c.Request.Context(), a, id, models.ReportUpdate{
		Status:     input.Status,
		AdminNotes: input.AdminNotes,
	})
	if err != nil {
		httputil.Fail(c, h.log, "error updating report", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *CommunityHandler) MyReports(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	list, err := h.service.MyReports(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error listing my reports", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) Reasons(c *gin.Context) {
	c.JSON(http.StatusOK, community.Reasons())
}
