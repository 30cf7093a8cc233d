package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/compost-credit-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// StandRepository implements the stand.Repository interface for PostgreSQL
type StandRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewStandRepository creates a new PostgreSQL compost stand repository
func NewStandRepository(logger *slog.Logger, db *persistence.PostgresDB) stand.Repository {
	return &StandRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *StandRepository) WithTx(tx pgx.Tx) stand.Repository {
	return &StandRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new compost stand
func (r *StandRepository) Create(ctx context.Context, s *stand.CompostStand) error {
	query := `
		INSERT INTO compost_stands (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.querier.Exec(ctx, query, s.ID, s.Name, s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return stand.ErrDuplicateStand{StandID: s.ID}
		}
		r.logger.Error("Failed to create compost stand", "stand_id", s.ID, "error", err)
		return fmt.Errorf("failed to create compost stand: %w", err)
	}

	return nil
}

// GetByID retrieves a compost stand and its administrator set
func (r *StandRepository) GetByID(ctx context.Context, id int32) (*stand.CompostStand, error) {
	query := `
		SELECT id, name, created_at
		FROM compost_stands
		WHERE id = $1
	`

	var s stand.CompostStand
	err := r.querier.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stand.ErrStandNotFound{StandID: id}
		}
		r.logger.Error("Failed to get compost stand", "stand_id", id, "error", err)
		return nil, fmt.Errorf("failed to get compost stand: %w", err)
	}

	admins, err := r.GetAdminIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	s.AdminIDs = admins

	return &s, nil
}

// List retrieves all compost stands with their administrator sets
func (r *StandRepository) List(ctx context.Context) ([]*stand.CompostStand, error) {
	query := `
		SELECT id, name, created_at
		FROM compost_stands
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list compost stands", "error", err)
		return nil, fmt.Errorf("failed to list compost stands: %w", err)
	}
	defer rows.Close()

	var stands []*stand.CompostStand
	for rows.Next() {
		var s stand.CompostStand
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan compost stand: %w", err)
		}
		stands = append(stands, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read compost stands: %w", err)
	}

	for _, s := range stands {
		admins, err := r.GetAdminIDs(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.AdminIDs = admins
	}

	return stands, nil
}

// GetAdminIDs returns the stand's administrator account ids in ascending
// order. The stable ordering is what makes bonus remainder assignment
// deterministic.
func (r *StandRepository) GetAdminIDs(ctx context.Context, standID int32) ([]uuid.UUID, error) {
	query := `
		SELECT account_id
		FROM compost_stand_admins
		WHERE stand_id = $1
		ORDER BY account_id
	`

	rows, err := r.querier.Query(ctx, query, standID)
	if err != nil {
		r.logger.Error("Failed to get stand admins", "stand_id", standID, "error", err)
		return nil, fmt.Errorf("failed to get stand admins: %w", err)
	}
	defer rows.Close()

	var admins []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stand admin: %w", err)
		}
		admins = append(admins, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stand admins: %w", err)
	}

	return admins, nil
}

// AddAdmin adds an account to the stand's administrator set. Adding an
// existing administrator is a no-op.
func (r *StandRepository) AddAdmin(ctx context.Context, standID int32, accountID uuid.UUID) error {
	query := `
		INSERT INTO compost_stand_admins (stand_id, account_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := r.querier.Exec(ctx, query, standID, accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return stand.ErrStandNotFound{StandID: standID}
		}
		r.logger.Error("Failed to add stand admin", "stand_id", standID, "account_id", accountID.String(), "error", err)
		return fmt.Errorf("failed to add stand admin: %w", err)
	}

	return nil
}

// RemoveAdmin removes an account from the stand's administrator set
func (r *StandRepository) RemoveAdmin(ctx context.Context, standID int32, accountID uuid.UUID) error {
	query := `
		DELETE FROM compost_stand_admins
		WHERE stand_id = $1 AND account_id = $2
	`

	_, err := r.querier.Exec(ctx, query, standID, accountID)
	if err != nil {
		r.logger.Error("Failed to remove stand admin", "stand_id", standID, "account_id", accountID.String(), "error", err)
		return fmt.Errorf("failed to remove stand admin: %w", err)
	}

	return nil
}
