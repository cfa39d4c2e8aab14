package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
)

func testUserService(users *fakeUserRepo, sessions *fakeSessionRepo, tokens *fakeTokenRepo, notifier *fakeNotifier) *UserService {
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	return NewUserService(users, sessions, tokens, fakeTxManager{}, notifier)
}

func TestUpdateUsername_SameNameRejected(t *testing.T) {
	svc := testUserService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)
	user := &domain.User{ID: uuid.New(), Username: "trader1"}

	_, err := svc.UpdateUsername(context.Background(), user, dto.UpdateUsernameRequest{Username: "trader1"})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestUpdateUsername_TakenRejected(t *testing.T) {
	users := &fakeUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Username: username}, nil
		},
	}
	svc := testUserService(users, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)
	user := &domain.User{ID: uuid.New(), Username: "trader1"}

	_, err := svc.UpdateUsername(context.Background(), user, dto.UpdateUsernameRequest{Username: "trader2"})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestUpdateUsername_Success(t *testing.T) {
	renamed := false
	users := &fakeUserRepo{
		UpdateUsernameFn: func(ctx context.Context, id uuid.UUID, username string) error {
			renamed = true
			return nil
		},
	}
	svc := testUserService(users, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)
	user := &domain.User{ID: uuid.New(), Username: "trader1"}

	updated, err := svc.UpdateUsername(context.Background(), user, dto.UpdateUsernameRequest{Username: "trader2"})
	require.NoError(t, err)

	assert.True(t, renamed)
	assert.Equal(t, "trader2", updated.Username)
	assert.Equal(t, "trader1", user.Username)
}

func TestSendEmailChangeOTP_StoresPendingAddress(t *testing.T) {
	var issued *domain.AuthToken
	tokens := &fakeTokenRepo{
		CreateFn: func(ctx context.Context, token *domain.AuthToken) error {
			issued = token
			return nil
		},
	}
	svc := testUserService(&fakeUserRepo{}, &fakeSessionRepo{}, tokens, nil)
	user := &domain.User{ID: uuid.New(), Email: "old@example.com", Username: "trader1"}

	err := svc.SendEmailChangeOTP(context.Background(), user, dto.UpdateEmailRequest{Email: "new@example.com"})
	require.NoError(t, err)

	require.NotNil(t, issued)
	assert.Equal(t, domain.TokenEmailChangeOTP, issued.Purpose)
	require.NotNil(t, issued.NewEmail)
	assert.Equal(t, "new@example.com", *issued.NewEmail)
	assert.Len(t, issued.Token, 6)
	assert.WithinDuration(t, time.Now().Add(domain.EmailChangeOTPTTL), issued.ExpiresAt, time.Minute)
}

func TestConfirmEmailChange_AppliesPendingAddress(t *testing.T) {
	userID := uuid.New()
	newEmail := "new@example.com"

	tokens := &fakeTokenRepo{
		GetValidOTPFn: func(ctx context.Context, gotUser uuid.UUID, otp string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
			assert.Equal(t, domain.TokenEmailChangeOTP, purpose)
			return &domain.AuthToken{ID: 4, UserID: gotUser, NewEmail: &newEmail}, nil
		},
	}
	var applied string
	users := &fakeUserRepo{
		UpdateEmailFn: func(ctx context.Context, id uuid.UUID, email string) error {
			applied = email
			return nil
		},
	}
	svc := testUserService(users, &fakeSessionRepo{}, tokens, nil)
	user := &domain.User{ID: userID, Email: "old@example.com"}

	updated, err := svc.ConfirmEmailChange(context.Background(), user, dto.ConfirmEmailChangeRequest{OTP: "482913"})
	require.NoError(t, err)

	assert.Equal(t, newEmail, applied)
	assert.Equal(t, newEmail, updated.Email)
}

func TestConfirmEmailChange_InvalidOTP(t *testing.T) {
	svc := testUserService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)
	user := &domain.User{ID: uuid.New()}

	_, err := svc.ConfirmEmailChange(context.Background(), user, dto.ConfirmEmailChangeRequest{OTP: "000000"})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}

func TestDeleteAccount_WrongPassword(t *testing.T) {
	svc := testUserService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)
	user := &domain.User{ID: uuid.New(), PasswordHash: hashPassword(t, "supersecret")}

	err := svc.DeleteAccount(context.Background(), user, dto.DeleteAccountRequest{Password: "wrong-password"})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestDeleteAccount_SchedulesDeletionAndRevokesSessions(t *testing.T) {
	userID := uuid.New()
	user := &domain.User{
		ID:           userID,
		Username:     "trader1",
		Email:        "trader1@example.com",
		PasswordHash: hashPassword(t, "supersecret"),
	}

	var markedDeletedAt, markedExpiresAt time.Time
	users := &fakeUserRepo{
		MarkDeletedFn: func(ctx context.Context, id uuid.UUID, deletedAt, expiresAt time.Time) error {
			markedDeletedAt = deletedAt
			markedExpiresAt = expiresAt
			return nil
		},
	}
	revokedAll := false
	sessions := &fakeSessionRepo{
		RevokeAllForUserFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			revokedAll = true
			return 2, nil
		},
	}
	svc := testUserService(users, sessions, &fakeTokenRepo{}, nil)

	err := svc.DeleteAccount(context.Background(), user, dto.DeleteAccountRequest{Password: "supersecret"})
	require.NoError(t, err)

	assert.True(t, revokedAll)
	assert.WithinDuration(t, markedDeletedAt.Add(domain.DeletionGracePeriod), markedExpiresAt, time.Second)
}
