package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

type ReportPostgres struct {
	db *pgxpool.Pool
}

func NewReportPostgres(db *pgxpool.Pool) *ReportPostgres {
	return &ReportPostgres{db: db}
}

const reportSelect = `
	SELECT r.id, r.reporter_id, r.report_type, r.reported_item_id, r.reason, r.description, r.status,
	       r.admin_notes, r.created_at, r.reviewed_at, r.reviewed_by,
	       COALESCE(u.email, ''),
	       CASE r.report_type
	           WHEN 'community' THEN COALESCE((SELECT c.name FROM communities c WHERE c.id = r.reported_item_id), 'Deleted Community')
	           ELSE COALESCE((SELECT p.title FROM posts p WHERE p.id = r.reported_item_id), 'Deleted Post')
	       END
	FROM reports r
	LEFT JOIN users u ON u.id = r.reporter_id
`

func scanReport(row pgx.Row) (*models.Report, error) {
	var rep models.Report
	err := row.Scan(&rep.ID, &rep.ReporterID, &rep.ReportType, &rep.ReportedItemID, &rep.Reason, &rep.Description,
		&rep.Status, &rep.AdminNotes, &rep.CreatedAt, &rep.ReviewedAt, &rep.ReviewedBy,
		&rep.ReporterEmail, &rep.ReportedItemTitle)
	if err != nil {
		return nil, notFound(err, app_errors.ErrReportNotFound)
	}
	return &rep, nil
}

func collectReports(rows pgx.Rows) ([]models.Report, error) {
	defer rows.Close()
	out := make([]models.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

// ItemExists checks the reported item of the given type.
func (r *ReportPostgres) ItemExists(ctx context.Context, reportType string, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`
	if reportType == models.ReportTypeCommunity {
		query = `SELECT EXISTS (SELECT 1 FROM communities WHERE id = $1)`
	}
	var ok bool
	err := r.db.QueryRow(ctx, query, id).Scan(&ok)
	return ok, err
}

func (r *ReportPostgres) CreateReport(ctx context.Context, rep models.Report) (*models.Report, error) {
	query := `
		INSERT INTO reports (reporter_id, report_type, reported_item_id, reason, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, rep.ReporterID, rep.ReportType, rep.ReportedItemID, rep.Reason, rep.Description).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrAlreadyReported
		}
		return nil, err
	}
	return r.Report(ctx, id)
}

func (r *ReportPostgres) Report(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return scanReport(r.db.QueryRow(ctx, reportSelect+` WHERE r.id = $1`, id))
}

func (r *ReportPostgres) Reports(ctx context.Context, f models.ReportFilter) ([]models.Report, error) {
	skip, limit := page(f.Skip, f.Limit)
	query := reportSelect + `
		WHERE ($1 = '' OR r.status = $1) AND ($2 = '' OR r.report_type = $2)
		ORDER BY r.created_at DESC
		OFFSET $3 LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, f.Status, f.ReportType, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectReports(rows)
}

func (r *ReportPostgres) ReportsByReporter(ctx context.Context, reporterID uuid.UUID) ([]models.Report, error) {
	rows, err := r.db.Query(ctx, reportSelect+` WHERE r.reporter_id = $1 ORDER BY r.created_at DESC`, reporterID)
	if err != nil {
		return nil, err
	}
	return collectReports(rows)
}

// reviewStamp returns the reviewer columns to write, or nils to leave them as they are.
func reviewStamp(upd models.ReportUpdate, adminID uuid.UUID, at time.Time) (*time.Time, *uuid.UUID) {
	if upd.Status == nil || *upd.Status == models.ReportStatusPending {
		return nil, nil
	}
	return &at, &adminID
}

// UpdateReport sets status and notes. Supplying a non-pending status stamps the reviewer.
func (r *ReportPostgres) UpdateReport(ctx context.Context, id, adminID uuid.UUID, upd models.ReportUpdate, at time.Time) (*models.Report, error) {
	query := `
		UPDATE reports SET
			status = COALESCE($2, status),
			admin_notes = COALESCE($3, admin_notes),
			reviewed_at = COALESCE($4, reviewed_at),
			reviewed_by = COALESCE($5, reviewed_by)
		WHERE id = $1
	`
	reviewedAt, reviewedBy := reviewStamp(upd, adminID, at)
	tag, err := r.db.Exec(ctx, query, id, upd.Status, upd.AdminNotes, reviewedAt, reviewedBy)
	if err := affected(tag, err, app_errors.ErrReportNotFound); err != nil {
		return nil, err
	}
	return r.Report(ctx, id)
}
