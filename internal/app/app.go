package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/glintai/internal/pkg/clock"
	"github.com/shandysiswandi/glintai/internal/pkg/config"
	"github.com/shandysiswandi/glintai/internal/pkg/goroutine"
	"github.com/shandysiswandi/glintai/internal/pkg/idempotency"
	"github.com/shandysiswandi/glintai/internal/pkg/instrument"
	"github.com/shandysiswandi/glintai/internal/pkg/jwt"
	"github.com/shandysiswandi/glintai/internal/pkg/mail"
	"github.com/shandysiswandi/glintai/internal/pkg/messaging"
	"github.com/shandysiswandi/glintai/internal/pkg/otp"
	"github.com/shandysiswandi/glintai/internal/pkg/router"
	"github.com/shandysiswandi/glintai/internal/pkg/uid"
	"github.com/shandysiswandi/glintai/internal/pkg/validator"
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
	uid       uid.NumberID
	uuid      uid.StringID
	totp      otp.OTP
	jwt       jwt.JWT

	// resources, nil when not configured
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server
	sseServer  *http.Server

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
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
	app.initJWT()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()

	return app
}
