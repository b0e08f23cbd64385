package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,numeric"`
}

// VerifyOTP consumes the most recent unused code for the identity, regardless
// of purpose. It is the shared gate before registration completion or a
// password reset picks up.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) error {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	rec, err := s.repoDB.GetLatestUnusedOTP(ctx, in.Email)
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

	err = s.repoDB.ConsumeOTP(ctx, entity.ConsumeOTP{
		RecordID:  rec.ID,
		UserID:    rec.UserID,
		OldStatus: entity.UserStatusPending,
		NewStatus: entity.UserStatusVerified,
	})
	if errors.Is(err, goerror.ErrNotFound) {
		// lost the race against a concurrent verify, the record is spent
		return goerror.NewBusiness("No active code for this account", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume otp", "record_id", rec.ID, "user_id", rec.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
