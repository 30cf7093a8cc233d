package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/compost-credit-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportRepository implements the stand.ReportRepository interface for PostgreSQL
type ReportRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewReportRepository creates a new PostgreSQL deposit report repository
func NewReportRepository(logger *slog.Logger, db *persistence.PostgresDB) stand.ReportRepository {
	return &ReportRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the report commits
// together with the reward credits derived from it.
func (r *ReportRepository) WithTx(tx pgx.Tx) stand.ReportRepository {
	return &ReportRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const reportColumns = "id, stand_id, depositor_id, weight_kg, dry_matter, notes, bugs, scales_problem, is_full, clean_and_tidy, compost_smell, created_at"

func scanReport(row pgx.Row) (*stand.DepositReport, error) {
	var report stand.DepositReport
	err := row.Scan(
		&report.ID,
		&report.StandID,
		&report.DepositorID,
		&report.WeightKg,
		&report.Quality.DryMatter,
		&report.Quality.Notes,
		&report.Quality.Bugs,
		&report.Quality.ScalesProblem,
		&report.Quality.Full,
		&report.Quality.CleanAndTidy,
		&report.Quality.CompostSmell,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Create stores a deposit report
func (r *ReportRepository) Create(ctx context.Context, report *stand.DepositReport) error {
	query := `
		INSERT INTO deposit_reports (id, stand_id, depositor_id, weight_kg, dry_matter, notes, bugs, scales_problem, is_full, clean_and_tidy, compost_smell, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.querier.Exec(ctx, query,
		report.ID,
		report.StandID,
		report.DepositorID,
		report.WeightKg,
		report.Quality.DryMatter,
		report.Quality.Notes,
		report.Quality.Bugs,
		report.Quality.ScalesProblem,
		report.Quality.Full,
		report.Quality.CleanAndTidy,
		report.Quality.CompostSmell,
		report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create deposit report", "report_id", report.ID.String(), "error", err)
		return fmt.Errorf("failed to create deposit report: %w", err)
	}

	return nil
}

// GetByID retrieves a deposit report by its ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*stand.DepositReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM deposit_reports
		WHERE id = $1
	`

	report, err := scanReport(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stand.ErrReportNotFound{ReportID: id}
		}
		r.logger.Error("Failed to get deposit report", "report_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get deposit report: %w", err)
	}

	return report, nil
}

// List retrieves paginated deposit reports, newest first
func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]*stand.DepositReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM deposit_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list deposit reports", "error", err)
		return nil, fmt.Errorf("failed to list deposit reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// GetByStandID retrieves a stand's deposit reports within the time window
func (r *ReportRepository) GetByStandID(ctx context.Context, standID int32, startTime, endTime time.Time) ([]*stand.DepositReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM deposit_reports
		WHERE stand_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, standID, startTime, endTime)
	if err != nil {
		r.logger.Error("Failed to get deposit reports by stand", "stand_id", standID, "error", err)
		return nil, fmt.Errorf("failed to get deposit reports by stand: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

func collectReports(rows pgx.Rows) ([]*stand.DepositReport, error) {
	var reports []*stand.DepositReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deposit reports: %w", err)
	}
	return reports, nil
}
