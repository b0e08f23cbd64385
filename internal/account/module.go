package account

import (
	"github.com/danukusuma/otpgate/internal/account/inbound"
	"github.com/danukusuma/otpgate/internal/account/outbound/db"
	"github.com/danukusuma/otpgate/internal/account/outbound/mq"
	"github.com/danukusuma/otpgate/internal/account/usecase"
	"github.com/danukusuma/otpgate/internal/pkg/clock"
	"github.com/danukusuma/otpgate/internal/pkg/config"
	"github.com/danukusuma/otpgate/internal/pkg/hash"
	"github.com/danukusuma/otpgate/internal/pkg/idempotency"
	"github.com/danukusuma/otpgate/internal/pkg/instrument"
	"github.com/danukusuma/otpgate/internal/pkg/messaging"
	"github.com/danukusuma/otpgate/internal/pkg/otpcode"
	"github.com/danukusuma/otpgate/internal/pkg/router"
	"github.com/danukusuma/otpgate/internal/pkg/uid"
	"github.com/danukusuma/otpgate/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Password    hash.Hash                  `validate:"required"`
	CodeGen     otpcode.Generator          `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAccount := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAccount,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Password:      dep.Password,
		CodeGen:       dep.CodeGen,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
