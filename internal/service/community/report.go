package community

import (
	"context"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const ReportSubmittedMsg = "Report submitted successfully. Thank you for helping keep our community safe."

type ReportInput struct {
	ReportType     string
	ReportedItemID uuid.UUID
	Reason         string
	Description    string
}

func itemNotFound(reportType string) error {
	if reportType == models.ReportTypeCommunity {
		return app_errors.ErrCommunityNotFound
	}
	return app_errors.ErrPostNotFound
}

// Reasons lists the accepted report reasons with display labels.
func Reasons() []models.ReportReason {
	out := make([]models.ReportReason, 0, len(models.ReportReasons))
	for _, r := range models.ReportReasons {
		out = append(out, models.ReportReason{Value: r, Label: models.ReasonLabel(r)})
	}
	return out
}

func (s *CommunityService) CreateReport(ctx context.Context, reporterID uuid.UUID, in ReportInput) (*models.Report, error) {
	if in.ReportType != models.ReportTypeCommunity && in.ReportType != models.ReportTypePost {
		return nil, app_errors.ErrInvalidReport
	}
	if !models.ValidReportReason(in.Reason) {
		return nil, app_errors.ErrInvalidReport
	}
	ok, err := s.reports.ItemExists(ctx, in.ReportType, in.ReportedItemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, itemNotFound(in.ReportType)
	}

	rep, err := s.reports.CreateReport(ctx, models.Report{
		ReporterID:     reporterID,
		ReportType:     in.ReportType,
		ReportedItemID: in.ReportedItemID,
		Reason:         in.Reason,
		Description:    in.Description,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("report created", "report_id", rep.ID, "type", rep.ReportType, "item", rep.ReportedItemID)
	return rep, nil
}

func (s *CommunityService) Reports(ctx context.Context, actor Actor, f models.ReportFilter) ([]models.Report, error) {
	if !actor.Admin {
		return nil, app_errors.ErrForbidden
	}
	if f.Status != "" && !models.ValidReportStatus(f.Status) {
		return nil, app_errors.ErrInvalidReport
	}
	return s.reports.Reports(ctx, f)
}

func (s *CommunityService) UpdateReport(ctx context.Context, actor Actor, id uuid.UUID, upd models.ReportUpdate) (*models.Report, error) {
	if !actor.Admin {
		return nil, app_errors.ErrForbidden
	}
	if upd.Status == nil && upd.AdminNotes == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	if upd.Status != nil && !models.ValidReportStatus(*upd.Status) {
		return nil, app_errors.ErrInvalidReport
	}
	return s.reports.UpdateReport(ctx, id, actor.ID, upd, s.now())
}

func (s *CommunityService) MyReports(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	return s.reports.ReportsByReporter(ctx, reporterID)
}
