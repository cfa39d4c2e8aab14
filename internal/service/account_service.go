package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
)

// AccountService manages the user's capital pools
type AccountService struct {
	accounts domain.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts domain.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// Create adds a new account for the user
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateAccountRequest) (*domain.Account, error) {
	now := time.Now()
	account := &domain.Account{
		ID:           newID(),
		UserID:       userID,
		Nickname:     req.Nickname,
		Exchange:     req.Exchange,
		Balance:      decimal.NewFromFloat(req.Balance),
		RiskPerTrade: decimal.NewFromFloat(req.RiskPerTrade),
		MaxRiskDaily: decimal.NewFromFloat(req.MaxRiskDaily),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetByID returns the user's account
func (s *AccountService) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id, userID, false)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.NewNotFound("Account not found", domain.CodeAccountNotFound)
	}
	return account, nil
}

// Update applies partial changes to the user's account
func (s *AccountService) Update(ctx context.Context, id, userID uuid.UUID, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		account.Nickname = *req.Nickname
	}
	if req.Exchange != nil {
		account.Exchange = *req.Exchange
	}
	if req.Balance != nil {
		account.Balance = decimal.NewFromFloat(*req.Balance)
	}
	if req.RiskPerTrade != nil {
		account.RiskPerTrade = decimal.NewFromFloat(*req.RiskPerTrade)
	}
	if req.MaxRiskDaily != nil {
		account.MaxRiskDaily = decimal.NewFromFloat(*req.MaxRiskDaily)
	}
	account.UpdatedAt = time.Now()

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Archive hides the account from listings and new activity
func (s *AccountService) Archive(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.accounts.SetArchived(ctx, id, userID, true)
}

// Unarchive restores an archived account
func (s *AccountService) Unarchive(ctx context.Context, id, userID uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, id, userID, true)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.NewNotFound("Account not found", domain.CodeAccountNotFound)
	}
	return s.accounts.SetArchived(ctx, id, userID, false)
}

// Delete permanently removes an account and its trades. Only archived
// accounts may be deleted, so destruction always takes two steps.
func (s *AccountService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, id, userID, true)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.NewNotFound("Account not found", domain.CodeAccountNotFound)
	}
	if !account.IsArchived {
		return domain.NewInvalidState("Account must be archived before deletion", domain.CodeAccountNotArchived)
	}

	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		return err
	}

	slog.Warn("account deleted", "account_id", account.ID, "user_id", userID)
	return nil
}

// List returns the user's non-archived accounts with trade aggregates
func (s *AccountService) List(ctx context.Context, userID uuid.UUID, query dto.ListQuery) (*domain.Pageable[domain.AccountDetail], error) {
	query.Normalize()

	total, err := s.accounts.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset := (query.Page - 1) * query.Size
	details, err := s.accounts.ListDetailed(ctx, userID, query.Size, offset)
	if err != nil {
		return nil, err
	}

	return &domain.Pageable[domain.AccountDetail]{
		Data:   details,
		Paging: domain.NewPaging(query.Page, query.Size, total),
	}, nil
}
