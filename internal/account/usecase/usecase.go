package usecase

import (
	"context"

	"github.com/danukusuma/otpgate/internal/account/entity"
	"github.com/danukusuma/otpgate/internal/pkg/clock"
	"github.com/danukusuma/otpgate/internal/pkg/config"
	"github.com/danukusuma/otpgate/internal/pkg/hash"
	"github.com/danukusuma/otpgate/internal/pkg/idempotency"
	"github.com/danukusuma/otpgate/internal/pkg/instrument"
	"github.com/danukusuma/otpgate/internal/pkg/otpcode"
	"github.com/danukusuma/otpgate/internal/pkg/uid"
	"github.com/danukusuma/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OTPIssuedEvent struct {
	UserID           int64
	Email            string
	FullName         string
	Purpose          entity.OTPPurpose
	Code             string
	ExpiresInSeconds int64
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetLatestOTP(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPRecord, error)
	GetLatestUnusedOTP(ctx context.Context, email string) (*entity.OTPRecord, error)
	GetLatestUnusedOTPByPurpose(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTPRecord, error)

	NewRegistration(ctx context.Context, user entity.NewUser, rec entity.OTPRecord, credential string) error
	NewOTP(ctx context.Context, rec entity.OTPRecord) error
	ConsumeOTP(ctx context.Context, data entity.ConsumeOTP) error
	ActivateUser(ctx context.Context, userID int64, oldStatus, newStatus entity.UserStatus, credential string) error
	ResetUserCredential(ctx context.Context, recordID, userID int64, credential string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	password      hash.Hash
	codeGen       otpcode.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Password      hash.Hash
	CodeGen       otpcode.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		password:      dep.Password,
		codeGen:       dep.CodeGen,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}
