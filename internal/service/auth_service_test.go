package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
)

const testUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testAuthService(users *fakeUserRepo, sessions *fakeSessionRepo, tokens *fakeTokenRepo, notifier *fakeNotifier) *AuthService {
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	return NewAuthService(users, sessions, tokens, fakeTxManager{}, notifier,
		"test-secret", 25*time.Minute, 30*24*time.Hour)
}

func TestRegister_Success(t *testing.T) {
	var created *domain.User
	users := &fakeUserRepo{
		CreateFn: func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "trader1",
		Email:    "trader1@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "trader1", user.Username)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
	assert.False(t, user.IsVerified)
}

func TestRegister_UsernameTaken(t *testing.T) {
	users := &fakeUserRepo{
		GetByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Username: username}, nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "trader1",
		Email:    "trader1@example.com",
		Password: "supersecret",
	})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestLogin_Success(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{
		GetByIdentifierFn: func(ctx context.Context, identifier string, includeDeleted bool) (*domain.User, error) {
			assert.True(t, includeDeleted)
			return &domain.User{
				ID:           userID,
				Username:     "trader1",
				Email:        "trader1@example.com",
				PasswordHash: hashPassword(t, "supersecret"),
			}, nil
		},
	}
	var stored *domain.Session
	sessions := &fakeSessionRepo{
		CreateFn: func(ctx context.Context, session *domain.Session) error {
			session.ID = 42
			stored = session
			return nil
		},
	}
	svc := testAuthService(users, sessions, &fakeTokenRepo{}, nil)

	result, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "trader1",
		Password:   "supersecret",
	}, testUA, "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, LoginSuccess, result.Status)
	require.NotNil(t, result.Session)
	assert.Nil(t, result.Recovery)
	assert.Equal(t, int64(42), result.Session.SessionID)
	assert.NotEmpty(t, result.Session.AccessToken)
	assert.Len(t, result.Session.RefreshToken, 64)

	require.NotNil(t, stored)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, "Chrome", stored.Browser)
	assert.Equal(t, "203.0.113.7", stored.IPAddress)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.TokenHash), []byte(result.Session.RefreshToken)))
}

func TestLogin_WrongPassword(t *testing.T) {
	users := &fakeUserRepo{
		GetByIdentifierFn: func(ctx context.Context, identifier string, includeDeleted bool) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), PasswordHash: hashPassword(t, "supersecret")}, nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "trader1",
		Password:   "wrong-password",
	}, testUA, "")

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, domain.CodeInvalidCredentials, appErr.Code)
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "nobody",
		Password:   "supersecret",
	}, testUA, "")

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.CodeInvalidCredentials, appErr.Code)
}

func TestLogin_PendingDeletionIssuesRecovery(t *testing.T) {
	now := time.Now()
	deletedAt := now.Add(-time.Hour)
	expiresAt := now.Add(10 * 24 * time.Hour)

	users := &fakeUserRepo{
		GetByIdentifierFn: func(ctx context.Context, identifier string, includeDeleted bool) (*domain.User, error) {
			return &domain.User{
				ID:               uuid.New(),
				PasswordHash:     hashPassword(t, "supersecret"),
				DeletedAt:        &deletedAt,
				DeletedExpiresAt: &expiresAt,
			}, nil
		},
	}
	var issued *domain.AuthToken
	tokens := &fakeTokenRepo{
		CreateFn: func(ctx context.Context, token *domain.AuthToken) error {
			issued = token
			return nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, tokens, nil)

	result, err := svc.Login(context.Background(), dto.LoginRequest{
		Identifier: "trader1",
		Password:   "supersecret",
	}, testUA, "")
	require.NoError(t, err)

	assert.Equal(t, LoginRecoveryNeeded, result.Status)
	assert.Nil(t, result.Session)
	require.NotNil(t, result.Recovery)
	assert.NotEmpty(t, result.Recovery.Token)
	assert.Greater(t, result.Recovery.RecoveryWindow, time.Duration(0))

	require.NotNil(t, issued)
	assert.Equal(t, domain.TokenAccountRecovery, issued.Purpose)
	assert.WithinDuration(t, now.Add(domain.AccountRecoveryTTL), issued.ExpiresAt, time.Minute)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	userID := uuid.New()
	secret := "0123456789abcdef0123456789abcdef"

	sessions := &fakeSessionRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*domain.Session, error) {
			return &domain.Session{
				ID:        id,
				UserID:    userID,
				TokenHash: hashPassword(t, secret),
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	users := &fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Username: "trader1"}, nil
		},
	}
	svc := testAuthService(users, sessions, &fakeTokenRepo{}, nil)

	desc := domain.SessionDescriptor{SID: 7, RT: secret}
	result, err := svc.RefreshAccessToken(context.Background(), desc.Encode())
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, userID, result.User.ID)
}

func TestRefreshAccessToken_SecretMismatchRevokesSession(t *testing.T) {
	revoked := false
	sessions := &fakeSessionRepo{
		GetByIDFn: func(ctx context.Context, id int64) (*domain.Session, error) {
			return &domain.Session{
				ID:        id,
				UserID:    uuid.New(),
				TokenHash: hashPassword(t, "the-real-secret"),
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
		RevokeFn: func(ctx context.Context, id int64) error {
			revoked = true
			return nil
		},
	}
	svc := testAuthService(&fakeUserRepo{}, sessions, &fakeTokenRepo{}, nil)

	desc := domain.SessionDescriptor{SID: 7, RT: "a-stolen-guess"}
	_, err := svc.RefreshAccessToken(context.Background(), desc.Encode())

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.CodeInvalidSession, appErr.Code)
	assert.True(t, revoked)
}

func TestRefreshAccessToken_MalformedDescriptor(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	for _, raw := range []string{"", "not-json", `{"sid":0,"rt":""}`} {
		_, err := svc.RefreshAccessToken(context.Background(), raw)

		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.Status)
	}
}

func TestLogout_WrongSecret(t *testing.T) {
	user := &domain.User{ID: uuid.New()}
	sessions := &fakeSessionRepo{
		GetForUserFn: func(ctx context.Context, id int64, userID uuid.UUID) (*domain.Session, error) {
			return &domain.Session{
				ID:        id,
				UserID:    userID,
				TokenHash: hashPassword(t, "the-real-secret"),
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	svc := testAuthService(&fakeUserRepo{}, sessions, &fakeTokenRepo{}, nil)

	desc := domain.SessionDescriptor{SID: 7, RT: "not-the-secret"}
	err := svc.Logout(context.Background(), user, desc.Encode())

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.CodeInvalidSession, appErr.Code)
}

func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	user := &domain.User{
		ID:           uuid.New(),
		Username:     "trader1",
		Email:        "trader1@example.com",
		PasswordHash: hashPassword(t, "old-password"),
	}

	var newHash string
	users := &fakeUserRepo{
		UpdatePasswordFn: func(ctx context.Context, id uuid.UUID, passwordHash string) error {
			newHash = passwordHash
			return nil
		},
	}
	var keptSession int64
	sessions := &fakeSessionRepo{
		RevokeOthersForUserFn: func(ctx context.Context, userID uuid.UUID, keepID int64) (int64, error) {
			keptSession = keepID
			return 3, nil
		},
	}
	svc := testAuthService(users, sessions, &fakeTokenRepo{}, nil)

	desc := domain.SessionDescriptor{SID: 9, RT: "current-secret"}
	err := svc.ChangePassword(context.Background(), user, dto.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password1",
	}, desc.Encode(), testUA)
	require.NoError(t, err)

	assert.Equal(t, int64(9), keptSession)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password1")))
}

func TestResetPassword_TokenAlreadyUsed(t *testing.T) {
	userID := uuid.New()
	tokens := &fakeTokenRepo{
		GetValidFn: func(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
			return &domain.AuthToken{ID: 5, UserID: userID, Purpose: purpose}, nil
		},
		RedeemFn: func(ctx context.Context, id int64) (bool, error) {
			return false, nil
		},
	}
	users := &fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, tokens, nil)

	err := svc.ResetPassword(context.Background(), "some-token", dto.ResetPasswordRequest{
		NewPassword: "new-password1",
	}, testUA)

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.CodeTokenAlreadyUsed, appErr.Code)
}

func TestResetPassword_RevokesAllSessions(t *testing.T) {
	userID := uuid.New()
	tokens := &fakeTokenRepo{
		GetValidFn: func(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
			assert.Equal(t, domain.TokenPasswordReset, purpose)
			return &domain.AuthToken{ID: 5, UserID: userID, Purpose: purpose}, nil
		},
	}
	revokedAll := false
	sessions := &fakeSessionRepo{
		RevokeAllForUserFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			revokedAll = true
			return 2, nil
		},
	}
	users := &fakeUserRepo{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Email: "trader1@example.com"}, nil
		},
	}
	svc := testAuthService(users, sessions, tokens, nil)

	err := svc.ResetPassword(context.Background(), "some-token", dto.ResetPasswordRequest{
		NewPassword: "new-password1",
	}, testUA)
	require.NoError(t, err)
	assert.True(t, revokedAll)
}

func TestVerifyEmail_Success(t *testing.T) {
	userID := uuid.New()
	tokens := &fakeTokenRepo{
		GetValidFn: func(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
			assert.Equal(t, domain.TokenEmailVerify, purpose)
			return &domain.AuthToken{ID: 3, UserID: userID, Purpose: purpose}, nil
		},
	}
	verified := false
	users := &fakeUserRepo{
		SetVerifiedFn: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, userID, id)
			verified = true
			return nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, tokens, nil)

	require.NoError(t, svc.VerifyEmail(context.Background(), "some-token"))
	assert.True(t, verified)
}

func TestSendEmailVerification_AlreadyVerified(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	err := svc.SendEmailVerification(context.Background(), &domain.User{ID: uuid.New(), IsVerified: true})

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domain.CodeUserAlreadyVerified, appErr.Code)
}

func TestRecoverAccount_ClearsDeletion(t *testing.T) {
	userID := uuid.New()
	tokens := &fakeTokenRepo{
		GetValidFn: func(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.AuthToken, error) {
			assert.Equal(t, domain.TokenAccountRecovery, purpose)
			return &domain.AuthToken{ID: 8, UserID: userID, Purpose: purpose}, nil
		},
	}
	cleared := false
	users := &fakeUserRepo{
		ClearDeletedFn: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, userID, id)
			cleared = true
			return nil
		},
	}
	svc := testAuthService(users, &fakeSessionRepo{}, tokens, nil)

	require.NoError(t, svc.RecoverAccount(context.Background(), "recovery-token"))
	assert.True(t, cleared)
}

func TestRecoverAccount_InvalidToken(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{}, &fakeSessionRepo{}, &fakeTokenRepo{}, nil)

	err := svc.RecoverAccount(context.Background(), "expired-token")

	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
}
