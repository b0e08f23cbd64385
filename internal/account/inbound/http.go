package inbound

import (
	"context"

	"github.com/danukusuma/otpgate/internal/account/usecase"
	"github.com/danukusuma/otpgate/internal/pkg/router"
)

type uc interface {
	RequestOTP(ctx context.Context, in usecase.RequestOTPInput) (*usecase.RequestOTPOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) error
	CompleteRegistration(ctx context.Context, in usecase.CompleteRegistrationInput) error
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Registration
	r.POST("/api/v1/account/register/otp", end.RequestRegistrationOTP)
	r.POST("/api/v1/account/otp/verify", end.VerifyOTP)
	r.POST("/api/v1/account/register/complete", end.CompleteRegistration)

	// Password Recovery
	r.POST("/api/v1/account/password/forgot", end.RequestPasswordResetOTP)
	r.POST("/api/v1/account/password/reset", end.PasswordReset)
}
