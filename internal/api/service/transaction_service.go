package service

import (
	"context"

	"github.com/compost-credit-ledger/internal/data/mongo"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/google/uuid"
)

// TransactionReadServiceImpl serves history queries from the Postgres
// transaction log
type TransactionReadServiceImpl struct {
	ledgerRepo ledger.Repository
}

// NewTransactionReadService creates a new transaction read service
func NewTransactionReadService(ledgerRepo ledger.Repository) TransactionReadService {
	return &TransactionReadServiceImpl{
		ledgerRepo: ledgerRepo,
	}
}

// GetTransactionByID retrieves a ledger transaction by its ID
func (s *TransactionReadServiceImpl) GetTransactionByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return s.ledgerRepo.GetByID(ctx, id)
}

// GetTransactionsByAccountID retrieves paginated history for an account
func (s *TransactionReadServiceImpl) GetTransactionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	transactions, err := s.ledgerRepo.GetByAccountID(ctx, accountID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// DailyStatsReader is the projection store surface the stats service reads
// from. Implemented by mongo.ReportingRepository.
type DailyStatsReader interface {
	GetDailyStats(ctx context.Context, startDay, endDay string) ([]*mongo.DailyCategoryStat, error)
}

// StatsServiceImpl serves aggregate queries from the Mongo read models
type StatsServiceImpl struct {
	reader DailyStatsReader
}

// NewStatsService creates a new stats service
func NewStatsService(reader DailyStatsReader) StatsService {
	return &StatsServiceImpl{
		reader: reader,
	}
}

// GetDailyStats returns per-category daily aggregates within the day range
func (s *StatsServiceImpl) GetDailyStats(ctx context.Context, startDay, endDay string) ([]*mongo.DailyCategoryStat, error) {
	return s.reader.GetDailyStats(ctx, startDay, endDay)
}
