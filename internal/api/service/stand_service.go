package service

import (
	"context"
	"time"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/google/uuid"
)

// StandServiceImpl implements the StandService interface
type StandServiceImpl struct {
	standRepo   stand.Repository
	reportRepo  stand.ReportRepository
	accountRepo account.Repository
}

// NewStandService creates a new stand service
func NewStandService(standRepo stand.Repository, reportRepo stand.ReportRepository, accountRepo account.Repository) StandService {
	return &StandServiceImpl{
		standRepo:   standRepo,
		reportRepo:  reportRepo,
		accountRepo: accountRepo,
	}
}

// CreateStand registers a new compost stand in the directory
func (s *StandServiceImpl) CreateStand(ctx context.Context, id int32, name string) (*stand.CompostStand, error) {
	st, err := stand.NewCompostStand(id, name)
	if err != nil {
		return nil, err
	}

	if err := s.standRepo.Create(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

// GetStand retrieves a stand with its current admin set
func (s *StandServiceImpl) GetStand(ctx context.Context, id int32) (*stand.CompostStand, error) {
	return s.standRepo.GetByID(ctx, id)
}

// ListStands returns all stands in the directory
func (s *StandServiceImpl) ListStands(ctx context.Context) ([]*stand.CompostStand, error) {
	return s.standRepo.List(ctx)
}

// AddAdmin grants an account administrator status on a stand. The account
// must exist; adding an existing admin is a no-op.
func (s *StandServiceImpl) AddAdmin(ctx context.Context, standID int32, accountID uuid.UUID) (*stand.CompostStand, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	if err := s.standRepo.AddAdmin(ctx, standID, accountID); err != nil {
		return nil, err
	}

	return s.standRepo.GetByID(ctx, standID)
}

// RemoveAdmin revokes an account's administrator status on a stand
func (s *StandServiceImpl) RemoveAdmin(ctx context.Context, standID int32, accountID uuid.UUID) (*stand.CompostStand, error) {
	if err := s.standRepo.RemoveAdmin(ctx, standID, accountID); err != nil {
		return nil, err
	}

	return s.standRepo.GetByID(ctx, standID)
}

// GetStandDeposits returns deposit reports for a stand within a time range
func (s *StandServiceImpl) GetStandDeposits(ctx context.Context, standID int32, startTime, endTime time.Time) ([]*stand.DepositReport, error) {
	if _, err := s.standRepo.GetByID(ctx, standID); err != nil {
		return nil, err
	}

	return s.reportRepo.GetByStandID(ctx, standID, startTime, endTime)
}
