package stand

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines compost stand directory persistence operations
type Repository interface {
	Create(ctx context.Context, stand *CompostStand) error
	GetByID(ctx context.Context, id int32) (*CompostStand, error)
	List(ctx context.Context) ([]*CompostStand, error)

	// GetAdminIDs returns the current administrator account ids for the
	// stand in ascending order. The reward engine resolves the set once,
	// at deposit processing time.
	GetAdminIDs(ctx context.Context, standID int32) ([]uuid.UUID, error)
	AddAdmin(ctx context.Context, standID int32, accountID uuid.UUID) error
	RemoveAdmin(ctx context.Context, standID int32, accountID uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}

// ReportRepository manages deposit report persistence
type ReportRepository interface {
	Create(ctx context.Context, report *DepositReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*DepositReport, error)
	List(ctx context.Context, limit, offset int) ([]*DepositReport, error)
	GetByStandID(ctx context.Context, standID int32, startTime, endTime time.Time) ([]*DepositReport, error)
	WithTx(tx pgx.Tx) ReportRepository
}

// ErrReportNotFound indicates missing deposit report
type ErrReportNotFound struct {
	ReportID uuid.UUID
}

func (e ErrReportNotFound) Error() string {
	return "deposit report not found: " + e.ReportID.String()
}
