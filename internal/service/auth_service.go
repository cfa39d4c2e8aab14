package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
	"tradejournal/internal/middleware"
)

// LoginStatus discriminates the login result variants
type LoginStatus string

const (
	LoginSuccess        LoginStatus = "SUCCESS"
	LoginRecoveryNeeded LoginStatus = "RECOVERY_NEEDED"
)

// SessionGrant is a successful login: an access token plus the raw
// refresh secret the boundary folds into the session cookie. The raw
// secret exists only here; storage keeps a hash.
type SessionGrant struct {
	User             *domain.User
	AccessToken      string
	SessionID        int64
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RecoveryGrant is a login against a pending-deletion account: a
// short-lived recovery token instead of a session.
type RecoveryGrant struct {
	Token          string
	RecoveryWindow time.Duration
}

// LoginResult is the tagged union of the two login outcomes; exactly
// one of Session/Recovery is set, per Status.
type LoginResult struct {
	Status   LoginStatus
	Session  *SessionGrant
	Recovery *RecoveryGrant
}

// RefreshResult carries the refreshed access token
type RefreshResult struct {
	User        *domain.User
	AccessToken string
}

// AuthService manages credentials, sessions, and the single-use token
// flows around them
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   domain.TokenRepository
	tx       domain.TxManager
	notifier domain.Notifier

	accessSecret string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens domain.TokenRepository,
	tx domain.TxManager,
	notifier domain.Notifier,
	accessSecret string,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:        users,
		sessions:     sessions,
		tokens:       tokens,
		tx:           tx,
		notifier:     notifier,
		accessSecret: accessSecret,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

// Register creates a new user. Username and email must both be free.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflict("Username already exists")
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflict("Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           newID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and either opens a session or, for a user
// inside the deletion grace window, hands out a recovery token instead.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, userAgent, ipAddress string) (*LoginResult, error) {
	// The soft-delete filter is bypassed here on purpose: a
	// pending-deletion user must still be able to reach recovery.
	user, err := s.users.GetByIdentifier(ctx, req.Identifier, true)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUnauthorized("Invalid Email/Username or Password").WithCode(domain.CodeInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorized("Invalid Email/Username or Password").WithCode(domain.CodeInvalidCredentials)
	}

	now := time.Now()
	if user.PendingDeletion(now) {
		return s.issueRecovery(ctx, user, now)
	}
	if user.DeletionExpired(now) {
		return nil, domain.NewUnauthorized("Invalid Email/Username or Password").WithCode(domain.CodeInvalidCredentials)
	}

	secret, err := randomToken(32)
	if err != nil {
		return nil, err
	}
	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	device := parseUserAgent(userAgent)
	session := &domain.Session{
		UserID:     user.ID,
		TokenHash:  string(secretHash),
		DeviceInfo: device.Device,
		Browser:    device.Browser,
		OS:         device.OS,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		ExpiresAt:  now.Add(s.refreshTTL),
		CreatedAt:  now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := middleware.GenerateAccessToken(user.ID, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "session_id", session.ID, "browser", device.Browser, "os", device.OS)

	return &LoginResult{
		Status: LoginSuccess,
		Session: &SessionGrant{
			User:             user,
			AccessToken:      accessToken,
			SessionID:        session.ID,
			RefreshToken:     secret,
			RefreshExpiresAt: session.ExpiresAt,
		},
	}, nil
}

// issueRecovery creates a short-lived recovery token for a user whose
// account is scheduled for deletion
func (s *AuthService) issueRecovery(ctx context.Context, user *domain.User, now time.Time) (*LoginResult, error) {
	token, err := randomToken(32)
	if err != nil {
		return nil, err
	}

	authToken := &domain.AuthToken{
		UserID:    user.ID,
		Purpose:   domain.TokenAccountRecovery,
		Token:     token,
		ExpiresAt: now.Add(domain.AccountRecoveryTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, authToken); err != nil {
		return nil, err
	}

	slog.Info("recovery token issued for pending-deletion user", "user_id", user.ID)

	return &LoginResult{
		Status: LoginRecoveryNeeded,
		Recovery: &RecoveryGrant{
			Token:          token,
			RecoveryWindow: user.DeletedExpiresAt.Sub(now),
		},
	}, nil
}

// Logout revokes the calling session after verifying the descriptor's
// raw secret against the stored hash.
func (s *AuthService) Logout(ctx context.Context, user *domain.User, rawDescriptor string) error {
	desc, err := domain.ParseSessionDescriptor(rawDescriptor)
	if err != nil {
		return err
	}

	session, err := s.sessions.GetForUser(ctx, desc.SID, user.ID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.NewUnauthorized("Unauthorized, invalid session").WithCode(domain.CodeInvalidSession)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(session.TokenHash), []byte(desc.RT)); err != nil {
		return domain.NewUnauthorized("Unauthorized, invalid session").WithCode(domain.CodeInvalidSession)
	}

	if err := s.sessions.Revoke(ctx, session.ID); err != nil {
		return err
	}

	slog.Info("session revoked", "user_id", user.ID, "session_id", session.ID)
	return nil
}

// RefreshAccessToken mints a new access token for a live session. A
// descriptor whose secret fails verification revokes the session on the
// spot: a mismatched secret against a valid session id means the cookie
// was tampered with or stolen.
func (s *AuthService) RefreshAccessToken(ctx context.Context, rawDescriptor string) (*RefreshResult, error) {
	desc, err := domain.ParseSessionDescriptor(rawDescriptor)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, desc.SID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.Usable(time.Now()) {
		return nil, domain.NewUnauthorized("Unauthorized, invalid or expired session").WithCode(domain.CodeInvalidSession)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(session.TokenHash), []byte(desc.RT)); err != nil {
		if revokeErr := s.sessions.Revoke(ctx, session.ID); revokeErr != nil {
			return nil, revokeErr
		}
		slog.Warn("session secret mismatch, session revoked", "session_id", session.ID, "user_id", session.UserID)
		return nil, domain.NewUnauthorized("Unauthorized, invalid session").WithCode(domain.CodeInvalidSession)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUnauthorized("Unauthorized, session user no longer exists").WithCode(domain.CodeInvalidSession)
	}

	accessToken, err := middleware.GenerateAccessToken(user.ID, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{User: user, AccessToken: accessToken}, nil
}

// ChangePassword sets a new password and revokes every other active
// session in the same transaction, keeping the calling session alive.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, req dto.ChangePasswordRequest, rawDescriptor, userAgent string) error {
	desc, err := domain.ParseSessionDescriptor(rawDescriptor)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return domain.NewUnauthorized("Invalid current password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}

		revoked, err := s.sessions.RevokeOthersForUser(ctx, user.ID, desc.SID)
		if err != nil {
			return err
		}

		slog.Warn("password changed, other sessions revoked",
			"user_id", user.ID,
			"revoked_count", revoked,
			"session_id", desc.SID,
		)
		return nil
	})
	if err != nil {
		return err
	}

	device := parseUserAgent(userAgent)
	go s.notifier.SendPasswordChanged(context.Background(), domain.PasswordChangedData{
		Email:      user.Email,
		Username:   user.Username,
		ChangedAt:  time.Now().Format(time.RFC1123),
		DeviceInfo: device.String(),
	})

	return nil
}

// ForgotPassword issues a short-lived single-use reset token
func (s *AuthService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("User not found", domain.CodeUserNotFound)
	}

	token, err := randomToken(32)
	if err != nil {
		return err
	}

	now := time.Now()
	authToken := &domain.AuthToken{
		UserID:    user.ID,
		Purpose:   domain.TokenPasswordReset,
		Token:     token,
		ExpiresAt: now.Add(domain.PasswordResetTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, authToken); err != nil {
		return err
	}

	go s.notifier.SendPasswordReset(context.Background(), domain.PasswordResetData{
		Email:      user.Email,
		Username:   user.Username,
		Token:      token,
		ExpiryTime: authToken.ExpiresAt.Format(time.RFC1123),
	})

	return nil
}

// ResetPassword redeems a reset token, sets the new password, and
// revokes every session for the user, all in one transaction.
func (s *AuthService) ResetPassword(ctx context.Context, token string, req dto.ResetPasswordRequest, userAgent string) error {
	reset, err := s.tokens.GetValid(ctx, token, domain.TokenPasswordReset)
	if err != nil {
		return err
	}
	if reset == nil {
		return domain.NewUnauthorized("Invalid or expired password reset link")
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("User no longer exists", domain.CodeUserNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		won, err := s.tokens.Redeem(ctx, reset.ID)
		if err != nil {
			return err
		}
		if !won {
			return domain.NewUnauthorized("Password reset link already used").WithCode(domain.CodeTokenAlreadyUsed)
		}

		if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}

		revoked, err := s.sessions.RevokeAllForUser(ctx, user.ID)
		if err != nil {
			return err
		}

		slog.Warn("password reset via link, all sessions revoked", "user_id", user.ID, "revoked_count", revoked)
		return nil
	})
	if err != nil {
		return err
	}

	device := parseUserAgent(userAgent)
	go s.notifier.SendPasswordChanged(context.Background(), domain.PasswordChangedData{
		Email:      user.Email,
		Username:   user.Username,
		ChangedAt:  time.Now().Format(time.RFC1123),
		DeviceInfo: device.String(),
	})

	return nil
}

// SendEmailVerification issues a verification link for an unverified user
func (s *AuthService) SendEmailVerification(ctx context.Context, user *domain.User) error {
	if user.IsVerified {
		return domain.NewInvalidState("User already verified", domain.CodeUserAlreadyVerified)
	}

	token, err := randomToken(32)
	if err != nil {
		return err
	}

	now := time.Now()
	authToken := &domain.AuthToken{
		UserID:    user.ID,
		Purpose:   domain.TokenEmailVerify,
		Token:     token,
		ExpiresAt: now.Add(domain.EmailVerifyTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, authToken); err != nil {
		return err
	}

	go s.notifier.SendEmailVerification(context.Background(), domain.EmailVerificationData{
		Email:      user.Email,
		Username:   user.Username,
		Token:      token,
		ExpiryTime: authToken.ExpiresAt.Format(time.RFC1123),
	})

	return nil
}

// VerifyEmail redeems a verification token and marks the user verified
// in the same transaction
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	verification, err := s.tokens.GetValid(ctx, token, domain.TokenEmailVerify)
	if err != nil {
		return err
	}
	if verification == nil {
		return domain.NewUnauthorized("Invalid or expired verification link")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		won, err := s.tokens.Redeem(ctx, verification.ID)
		if err != nil {
			return err
		}
		if !won {
			return domain.NewUnauthorized("Verification link already used").WithCode(domain.CodeTokenAlreadyUsed)
		}

		return s.users.SetVerified(ctx, verification.UserID)
	})
}

// RecoverAccount redeems a recovery token and clears the user's
// soft-delete fields in the same transaction
func (s *AuthService) RecoverAccount(ctx context.Context, token string) error {
	recovery, err := s.tokens.GetValid(ctx, token, domain.TokenAccountRecovery)
	if err != nil {
		return err
	}
	if recovery == nil {
		return domain.NewUnauthorized("Invalid or expired account recovery token")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		won, err := s.tokens.Redeem(ctx, recovery.ID)
		if err != nil {
			return err
		}
		if !won {
			return domain.NewUnauthorized("Account recovery token already used").WithCode(domain.CodeTokenAlreadyUsed)
		}

		if err := s.users.ClearDeleted(ctx, recovery.UserID); err != nil {
			return err
		}

		slog.Info("account recovered from pending deletion", "user_id", recovery.UserID)
		return nil
	})
}
