package service

import (
	"context"

	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	standRepo   stand.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository, standRepo stand.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		standRepo:   standRepo,
	}
}

// CreateAccount creates a new account, checking for duplicate phone numbers
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, ownerName string, phoneNumber string, initialBalance decimal.Decimal) (*account.Account, error) {
	existing, err := s.accountRepo.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, account.ErrDuplicatePhoneNumber{PhoneNumber: phoneNumber}
	}

	acc, err := account.NewAccount(ownerName, phoneNumber, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// GetAccountByPhoneNumber looks up an account by phone number
func (s *AccountServiceImpl) GetAccountByPhoneNumber(ctx context.Context, phoneNumber string) (*account.Account, error) {
	acc, err := s.accountRepo.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, account.ErrAccountNotFound{}
	}
	return acc, nil
}

// SetLocalStand records the participant's usual stand after checking the
// stand exists, and returns the updated account.
func (s *AccountServiceImpl) SetLocalStand(ctx context.Context, id uuid.UUID, standID int32) (*account.Account, error) {
	if _, err := s.standRepo.GetByID(ctx, standID); err != nil {
		return nil, err
	}

	if err := s.accountRepo.SetLocalStand(ctx, id, standID); err != nil {
		return nil, err
	}

	return s.accountRepo.GetByID(ctx, id)
}
