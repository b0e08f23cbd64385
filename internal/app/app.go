package app

import (
	"context"
	"net/http"

	"github.com/danukusuma/otpgate/internal/pkg/clock"
	"github.com/danukusuma/otpgate/internal/pkg/config"
	"github.com/danukusuma/otpgate/internal/pkg/goroutine"
	"github.com/danukusuma/otpgate/internal/pkg/hash"
	"github.com/danukusuma/otpgate/internal/pkg/idempotency"
	"github.com/danukusuma/otpgate/internal/pkg/instrument"
	"github.com/danukusuma/otpgate/internal/pkg/mail"
	"github.com/danukusuma/otpgate/internal/pkg/messaging"
	"github.com/danukusuma/otpgate/internal/pkg/otpcode"
	"github.com/danukusuma/otpgate/internal/pkg/router"
	"github.com/danukusuma/otpgate/internal/pkg/uid"
	"github.com/danukusuma/otpgate/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	argon2id  hash.Hash
	bcrypt    hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	codeGen   otpcode.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
