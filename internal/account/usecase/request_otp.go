package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
	"github.com/danukusuma/otpgate/internal/pkg/idempotency"
)

type RequestOTPInput struct {
	Email    string            `validate:"required,email"`
	Purpose  entity.OTPPurpose `validate:"required"`
	FullName string            `validate:"required_if=Purpose 1,omitempty,min=5,max=100,alphaspace"`
	Phone    string            `validate:"required_if=Purpose 1,omitempty,phone"`
}

type RequestOTPOutput struct {
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	isNewUser := false
	switch in.Purpose {
	case entity.OTPPurposeRegistration:
		if user == nil {
			isNewUser = true
			break
		}

		switch user.Status.Ensure() {
		case entity.UserStatusActive:
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		case entity.UserStatusPending, entity.UserStatusVerified:
			// resume of an abandoned registration, resend is allowed
		default:
			slog.WarnContext(ctx, "user account status is unrecognized", "user_id", user.ID)
			return nil, goerror.NewBusiness("Account status is unrecognized", goerror.CodeForbidden)
		}

	case entity.OTPPurposePasswordReset:
		if user == nil || user.Status.Ensure() != entity.UserStatusActive {
			return nil, goerror.NewBusiness("Email not registered or not active", goerror.CodeNotFound)
		}

	default:
		return nil, goerror.NewInvalidInput(nil, "purpose", "purpose is unknown")
	}

	// Best-effort serialization of the check-then-insert sequence. The lock
	// TTL matches the issuance window, so a held key and a too-recent record
	// reject for the same reason.
	window := s.cfg.GetSecond("modules.account.otp_window_seconds")
	lockKey := fmt.Sprintf("account:otp:%s:%s", in.Purpose.String(), in.Email)
	state, err := s.idemp.Acquire(ctx, lockKey, window)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire otp issuance lock", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if state != idempotency.StateNone {
		return nil, goerror.NewBusiness("Please wait before requesting another code", goerror.CodeTooManyRequest)
	}

	now := s.clock.Now()

	last, err := s.repoDB.GetLatestOTP(ctx, in.Email, in.Purpose)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get latest otp", "email", in.Email, "error", err)
		s.releaseIssuanceLock(ctx, lockKey)
		return nil, goerror.NewServer(err)
	}
	if last != nil && withinIssuanceWindow(now, last.CreatedAt, window) {
		return nil, goerror.NewBusiness("Please wait before requesting another code", goerror.CodeTooManyRequest)
	}

	code, err := s.codeGen.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		s.releaseIssuanceLock(ctx, lockKey)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		s.releaseIssuanceLock(ctx, lockKey)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.account.otp_ttl_minutes")
	rec := entity.OTPRecord{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		Purpose:   in.Purpose,
		CodeHash:  string(codeHash),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	fullName := ""
	if isNewUser {
		newUser := entity.NewUser{
			ID:       s.uid.Generate(),
			Email:    in.Email,
			FullName: in.FullName,
			Phone:    in.Phone,
			Role:     s.cfg.GetString("modules.account.default_role"),
			Status:   entity.UserStatusPending,
		}
		rec.UserID = newUser.ID
		fullName = newUser.FullName

		sentinel := s.cfg.GetString("modules.account.credential_sentinel")
		if err := s.repoDB.NewRegistration(ctx, newUser, rec, sentinel); err != nil {
			slog.ErrorContext(ctx, "failed to repo create registration", "email", in.Email, "error", err)
			s.releaseIssuanceLock(ctx, lockKey)
			return nil, goerror.NewServer(err)
		}
	} else {
		rec.UserID = user.ID
		fullName = user.FullName

		if err := s.repoDB.NewOTP(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "failed to repo create otp", "email", in.Email, "error", err)
			s.releaseIssuanceLock(ctx, lockKey)
			return nil, goerror.NewServer(err)
		}
	}

	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		UserID:           rec.UserID,
		Email:            rec.Email,
		FullName:         fullName,
		Purpose:          rec.Purpose,
		Code:             code,
		ExpiresInSeconds: int64(ttl.Seconds()),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued", "user_id", rec.UserID, "error", err)
	}

	return &RequestOTPOutput{ExpiresAt: rec.ExpiresAt, ExpiresIn: ttl}, nil
}

// releaseIssuanceLock shortens the lock so a failed issuance does not hold
// the caller to the full window.
func (s *Usecase) releaseIssuanceLock(ctx context.Context, key string) {
	if err := s.idemp.MarkFailed(ctx, key, time.Second); err != nil {
		slog.WarnContext(ctx, "failed to release otp issuance lock", "key", key, "error", err)
	}
}
