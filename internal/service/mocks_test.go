package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradejournal/internal/domain"
)

// Function-stub doubles for the repository interfaces. Unset functions
// return zero values so each test only wires what it exercises.

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	CreateFn          func(ctx context.Context, user *domain.User) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn   func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn      func(ctx context.Context, email string) (*domain.User, error)
	GetByIdentifierFn func(ctx context.Context, identifier string, includeDeleted bool) (*domain.User, error)
	UpdatePasswordFn  func(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateUsernameFn  func(ctx context.Context, id uuid.UUID, username string) error
	UpdateEmailFn     func(ctx context.Context, id uuid.UUID, email string) error
	SetVerifiedFn     func(ctx context.Context, id uuid.UUID) error
	MarkDeletedFn     func(ctx context.Context, id uuid.UUID, deletedAt, expiresAt time.Time) error
	ClearDeletedFn    func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if f.GetByUsernameFn != nil {
		return f.GetByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.GetByEmailFn != nil {
		return f.GetByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string, includeDeleted bool) (*domain.User, error) {
	if f.GetByIdentifierFn != nil {
		return f.GetByIdentifierFn(ctx, identifier, includeDeleted)
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if f.UpdatePasswordFn != nil {
		return f.UpdatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

func (f *fakeUserRepo) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	if f.UpdateUsernameFn != nil {
		return f.UpdateUsernameFn(ctx, id, username)
	}
	return nil
}

func (f *fakeUserRepo) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	if f.UpdateEmailFn != nil {
		return f.UpdateEmailFn(ctx, id, email)
	}
	return nil
}

func (f *fakeUserRepo) SetVerified(ctx context.Context, id uuid.UUID) error {
	if f.SetVerifiedFn != nil {
		return f.SetVerifiedFn(ctx, id)
	}
	return nil
}

func (f *fakeUserRepo) MarkDeleted(ctx context.Context, id uuid.UUID, deletedAt, expiresAt time.Time) error {
	if f.MarkDeletedFn != nil {
		return f.MarkDeletedFn(ctx, id, deletedAt, expiresAt)
	}
	return nil
}

func (f *fakeUserRepo) ClearDeleted(ctx context.Context, id uuid.UUID) error {
	if f.ClearDeletedFn != nil {
		return f.ClearDeletedFn(ctx, id)
	}
	return nil
}

type fakeSessionRepo struct {
	CreateFn              func(ctx context.Context, session *domain.Session) error
	GetByIDFn             func(ctx context.Context, id int64) (*domain.Session, error)
	GetForUserFn          func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Session, error)
	RevokeFn              func(ctx context.Context, id int64) error
	RevokeAllForUserFn    func(ctx context.Context, userID uuid.UUID) (int64, error)
	RevokeOthersForUserFn func(ctx context.Context, userID uuid.UUID, keepID int64) (int64, error)
	DeleteDefunctFn       func(ctx context.Context, before time.Time) (int64, error)
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, session)
	}
	session.ID = 1
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeSessionRepo) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Session, error) {
	if f.GetForUserFn != nil {
		return f.GetForUserFn(ctx, id, userID)
	}
	return nil, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, id int64) error {
	if f.RevokeFn != nil {
		return f.RevokeFn(ctx, id)
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if f.RevokeAllForUserFn != nil {
		return f.RevokeAllForUserFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeSessionRepo) RevokeOthersForUser(ctx context.Context, userID uuid.UUID, keepID int64) (int64, error) {
	if f.RevokeOthersForUserFn != nil {
		return f.RevokeOthersForUserFn(ctx, userID, keepID)
	}
	return 0, nil
}

func (f *fakeSessionRepo) DeleteDefunct(ctx context.Context, before time.Time) (int64, error) {
	if f.DeleteDefunctFn != nil {
		return f.DeleteDefunctFn(ctx, before)
	}
	return 0, nil
}

type fakeTokenRepo struct {
	CreateFn        func(ctx context.Context, token *domain.AuthToken) error
	GetValidFn      func(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error)
	GetValidOTPFn   func(ctx context.Context, userID uuid.UUID, otp string, purpose domain.TokenPurpose) (*domain.AuthToken, error)
	RedeemFn        func(ctx context.Context, id int64) (bool, error)
	DeleteExpiredFn func(ctx context.Context, before time.Time) (int64, error)
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *domain.AuthToken) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, token)
	}
	token.ID = 1
	return nil
}

func (f *fakeTokenRepo) GetValid(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
	if f.GetValidFn != nil {
		return f.GetValidFn(ctx, token, purpose)
	}
	return nil, nil
}

func (f *fakeTokenRepo) GetValidOTP(ctx context.Context, userID uuid.UUID, otp string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
	if f.GetValidOTPFn != nil {
		return f.GetValidOTPFn(ctx, userID, otp, purpose)
	}
	return nil, nil
}

func (f *fakeTokenRepo) Redeem(ctx context.Context, id int64) (bool, error) {
	if f.RedeemFn != nil {
		return f.RedeemFn(ctx, id)
	}
	return true, nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if f.DeleteExpiredFn != nil {
		return f.DeleteExpiredFn(ctx, before)
	}
	return 0, nil
}

type fakeAccountRepo struct {
	CreateFn       func(ctx context.Context, account *domain.Account) error
	GetByIDFn      func(ctx context.Context, id, userID uuid.UUID, includeArchived bool) (*domain.Account, error)
	UpdateFn       func(ctx context.Context, account *domain.Account) error
	SetArchivedFn  func(ctx context.Context, id, userID uuid.UUID, archived bool) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	CountByUserFn  func(ctx context.Context, userID uuid.UUID) (int64, error)
	ListDetailedFn func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AccountDetail, error)
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, account)
	}
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id, userID uuid.UUID, includeArchived bool) (*domain.Account, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id, userID, includeArchived)
	}
	return nil, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, account)
	}
	return nil
}

func (f *fakeAccountRepo) SetArchived(ctx context.Context, id, userID uuid.UUID, archived bool) error {
	if f.SetArchivedFn != nil {
		return f.SetArchivedFn(ctx, id, userID, archived)
	}
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeAccountRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if f.CountByUserFn != nil {
		return f.CountByUserFn(ctx, userID)
	}
	return 0, nil
}

func (f *fakeAccountRepo) ListDetailed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.AccountDetail, error) {
	if f.ListDetailedFn != nil {
		return f.ListDetailedFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

type fakePlaybookRepo struct {
	CreateFn              func(ctx context.Context, playbook *domain.Playbook) error
	GetByIDFn             func(ctx context.Context, id, userID uuid.UUID) (*domain.Playbook, error)
	UpdateFn              func(ctx context.Context, playbook *domain.Playbook) error
	DeleteFn              func(ctx context.Context, id uuid.UUID) error
	CountOwnedFn          func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	ListByUserFn          func(ctx context.Context, userID uuid.UUID) ([]domain.Playbook, error)
	ListFn                func(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]domain.Playbook, error)
	CountFn               func(ctx context.Context, userID uuid.UUID, search string) (int64, error)
	ClosedTradeOutcomesFn func(ctx context.Context, playbookIDs []uuid.UUID) (map[uuid.UUID][]domain.TradeOutcome, error)
}

func (f *fakePlaybookRepo) Create(ctx context.Context, playbook *domain.Playbook) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, playbook)
	}
	return nil
}

func (f *fakePlaybookRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Playbook, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id, userID)
	}
	return nil, nil
}

func (f *fakePlaybookRepo) Update(ctx context.Context, playbook *domain.Playbook) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, playbook)
	}
	return nil
}

func (f *fakePlaybookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakePlaybookRepo) CountOwned(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if f.CountOwnedFn != nil {
		return f.CountOwnedFn(ctx, userID, ids)
	}
	return int64(len(ids)), nil
}

func (f *fakePlaybookRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Playbook, error) {
	if f.ListByUserFn != nil {
		return f.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakePlaybookRepo) List(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]domain.Playbook, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, userID, search, limit, offset)
	}
	return nil, nil
}

func (f *fakePlaybookRepo) Count(ctx context.Context, userID uuid.UUID, search string) (int64, error) {
	if f.CountFn != nil {
		return f.CountFn(ctx, userID, search)
	}
	return 0, nil
}

func (f *fakePlaybookRepo) ClosedTradeOutcomes(ctx context.Context, playbookIDs []uuid.UUID) (map[uuid.UUID][]domain.TradeOutcome, error) {
	if f.ClosedTradeOutcomesFn != nil {
		return f.ClosedTradeOutcomesFn(ctx, playbookIDs)
	}
	return map[uuid.UUID][]domain.TradeOutcome{}, nil
}

type fakeTradeRepo struct {
	CreateFn           func(ctx context.Context, trade *domain.Trade) error
	GetByIDFn          func(ctx context.Context, id, userID uuid.UUID) (*domain.Trade, error)
	UpdateFn           func(ctx context.Context, trade *domain.Trade) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	ReplacePlaybooksFn func(ctx context.Context, tradeID uuid.UUID, playbookIDs []uuid.UUID) error
	ListFn             func(ctx context.Context, accountID uuid.UUID, filter domain.TradeFilter) ([]domain.Trade, int64, error)
}

func (f *fakeTradeRepo) Create(ctx context.Context, trade *domain.Trade) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, trade)
	}
	return nil
}

func (f *fakeTradeRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Trade, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id, userID)
	}
	return nil, nil
}

func (f *fakeTradeRepo) Update(ctx context.Context, trade *domain.Trade) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, trade)
	}
	return nil
}

func (f *fakeTradeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeTradeRepo) ReplacePlaybooks(ctx context.Context, tradeID uuid.UUID, playbookIDs []uuid.UUID) error {
	if f.ReplacePlaybooksFn != nil {
		return f.ReplacePlaybooksFn(ctx, tradeID, playbookIDs)
	}
	return nil
}

func (f *fakeTradeRepo) List(ctx context.Context, accountID uuid.UUID, filter domain.TradeFilter) ([]domain.Trade, int64, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, accountID, filter)
	}
	return nil, 0, nil
}

// fakeNotifier records sends behind a mutex; services fire
// notifications from goroutines.
type fakeNotifier struct {
	mu              sync.Mutex
	verifications   []domain.EmailVerificationData
	resets          []domain.PasswordResetData
	passwordChanges []domain.PasswordChangedData
	deletions       []domain.AccountDeletionData
	otps            []domain.EmailChangeOTPData
}

func (f *fakeNotifier) SendEmailVerification(ctx context.Context, data domain.EmailVerificationData) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications = append(f.verifications, data)
	return true
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, data domain.PasswordResetData) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, data)
	return true
}

func (f *fakeNotifier) SendPasswordChanged(ctx context.Context, data domain.PasswordChangedData) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwordChanges = append(f.passwordChanges, data)
	return true
}

func (f *fakeNotifier) SendAccountDeletion(ctx context.Context, data domain.AccountDeletionData) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletions = append(f.deletions, data)
	return true
}

func (f *fakeNotifier) SendEmailChangeOTP(ctx context.Context, data domain.EmailChangeOTPData) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps = append(f.otps, data)
	return true
}
