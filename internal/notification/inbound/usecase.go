package inbound

import (
	"context"

	"github.com/danukusuma/otpgate/internal/notification/usecase"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
}
