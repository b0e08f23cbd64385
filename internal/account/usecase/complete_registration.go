package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/goerror"
)

type CompleteRegistrationInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

// CompleteRegistration stores the first real credential and activates the
// account. It only applies to a verified account; activation must follow
// verification exactly once per registration cycle.
func (s *Usecase) CompleteRegistration(ctx context.Context, in CompleteRegistrationInput) error {
	ctx, span := s.startSpan(ctx, "CompleteRegistration")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Email not registered", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	switch user.Status.Ensure() {
	case entity.UserStatusVerified:
		// the only state allowed through
	case entity.UserStatusActive:
		return goerror.NewBusiness("Account already activated", goerror.CodePrecondition)
	case entity.UserStatusPending:
		return goerror.NewBusiness("Email not verified yet", goerror.CodePrecondition)
	default:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", user.ID)
		return goerror.NewBusiness("Account status is unrecognized", goerror.CodeForbidden)
	}

	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.ActivateUser(ctx, user.ID, entity.UserStatusVerified, entity.UserStatusActive, string(hashed))
	if errors.Is(err, goerror.ErrNotFound) {
		// status changed between the read and the conditional update
		return goerror.NewBusiness("Account is not ready for activation", goerror.CodePrecondition)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo activate user", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
