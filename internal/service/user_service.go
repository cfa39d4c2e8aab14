package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tradejournal/internal/delivery/http/dto"
	"tradejournal/internal/domain"
)

// UserService manages the authenticated user's own profile
type UserService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   domain.TokenRepository
	tx       domain.TxManager
	notifier domain.Notifier
}

// NewUserService creates a new UserService
func NewUserService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens domain.TokenRepository,
	tx domain.TxManager,
	notifier domain.Notifier,
) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		tx:       tx,
		notifier: notifier,
	}
}

// GetProfile returns the caller's own user record
func (s *UserService) GetProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

// UpdateUsername renames the caller. Renaming to the current username
// is rejected, as is a name another user holds.
func (s *UserService) UpdateUsername(ctx context.Context, user *domain.User, req dto.UpdateUsernameRequest) (*domain.User, error) {
	if req.Username == user.Username {
		return nil, domain.NewForbidden("New username must differ from the current one")
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflict("Username already exists")
	}

	if err := s.users.UpdateUsername(ctx, user.ID, req.Username); err != nil {
		return nil, err
	}

	updated := *user
	updated.Username = req.Username
	return &updated, nil
}

// SendEmailChangeOTP issues a numeric OTP to the caller's new address.
// The pending address rides on the token row until confirmation.
func (s *UserService) SendEmailChangeOTP(ctx context.Context, user *domain.User, req dto.UpdateEmailRequest) error {
	if req.Email == user.Email {
		return domain.NewForbidden("New email must differ from the current one")
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewConflict("Email already exists")
	}

	otp, err := randomOTP(6)
	if err != nil {
		return err
	}

	now := time.Now()
	newEmail := req.Email
	authToken := &domain.AuthToken{
		UserID:    user.ID,
		Purpose:   domain.TokenEmailChangeOTP,
		Token:     otp,
		NewEmail:  &newEmail,
		ExpiresAt: now.Add(domain.EmailChangeOTPTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, authToken); err != nil {
		return err
	}

	go s.notifier.SendEmailChangeOTP(context.Background(), domain.EmailChangeOTPData{
		Email:      req.Email,
		Username:   user.Username,
		OTP:        otp,
		ExpiryTime: authToken.ExpiresAt.Format(time.RFC1123),
	})

	return nil
}

// ConfirmEmailChange redeems the OTP and swaps the caller's email to the
// address stored on the token, in one transaction.
func (s *UserService) ConfirmEmailChange(ctx context.Context, user *domain.User, req dto.ConfirmEmailChangeRequest) (*domain.User, error) {
	otp, err := s.tokens.GetValidOTP(ctx, user.ID, req.OTP, domain.TokenEmailChangeOTP)
	if err != nil {
		return nil, err
	}
	if otp == nil || otp.NewEmail == nil {
		return nil, domain.NewUnauthorized("Invalid or expired OTP")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		won, err := s.tokens.Redeem(ctx, otp.ID)
		if err != nil {
			return err
		}
		if !won {
			return domain.NewUnauthorized("OTP already used").WithCode(domain.CodeTokenAlreadyUsed)
		}

		return s.users.UpdateEmail(ctx, user.ID, *otp.NewEmail)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("email changed", "user_id", user.ID)

	updated := *user
	updated.Email = *otp.NewEmail
	return &updated, nil
}

// DeleteAccount verifies the caller's password, revokes every session,
// and marks the user for deletion after the grace period.
func (s *UserService) DeleteAccount(ctx context.Context, user *domain.User, req dto.DeleteAccountRequest) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.NewForbidden("Invalid password")
	}

	now := time.Now()
	expiresAt := now.Add(domain.DeletionGracePeriod)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		revoked, err := s.sessions.RevokeAllForUser(ctx, user.ID)
		if err != nil {
			return err
		}

		if err := s.users.MarkDeleted(ctx, user.ID, now, expiresAt); err != nil {
			return err
		}

		slog.Warn("user scheduled for deletion",
			"user_id", user.ID,
			"expires_at", expiresAt,
			"revoked_count", revoked,
		)
		return nil
	})
	if err != nil {
		return err
	}

	go s.notifier.SendAccountDeletion(context.Background(), domain.AccountDeletionData{
		Email:      user.Email,
		Username:   user.Username,
		DeleteDate: expiresAt.Format(time.RFC1123),
	})

	return nil
}
