package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	Code        string `validate:"required,numeric"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset consumes the newest unused password-reset code and stores the
// new credential in the same transaction. Account status is never touched.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	if user == nil || user.Status.Ensure() != entity.UserStatusActive {
		return goerror.NewBusiness("Email not registered or not active", goerror.CodeNotFound)
	}

	rec, err := s.repoDB.GetLatestUnusedOTPByPurpose(ctx, in.Email, entity.OTPPurposePasswordReset)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("No active code for this account", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get latest unused otp", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if !s.hmac.Verify(rec.CodeHash, in.Code) {
		slog.WarnContext(ctx, "otp code mismatch", "user_id", rec.UserID)
		return goerror.NewBusiness("Incorrect code", goerror.CodeUnauthorized)
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		return goerror.NewBusiness("Code has expired, request a new one", goerror.CodeExpired)
	}

	hashed, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.ResetUserCredential(ctx, rec.ID, rec.UserID, string(hashed))
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("No active code for this account", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo reset user credential", "record_id", rec.ID, "user_id", rec.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
