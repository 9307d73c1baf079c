package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/glintai/internal/courier"
	"github.com/shandysiswandi/glintai/internal/signin"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.signin.enabled") {
		if err := signin.New(signin.Dependency{
			Ctx:         a.ctx,
			Router:      a.router,
			Goroutine:   a.goroutine,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
			JWT:         a.jwt,
			Totp:        a.totp,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Mail:        a.mail,
		}); err != nil {
			slog.Error("failed to init module signin", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.courier.enabled") {
		if a.messaging == nil {
			slog.Warn("module courier enabled without messaging, skipped")
			return
		}

		if err := courier.New(courier.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Idempotency: a.idemp,
			Mail:        a.mail,
		}); err != nil {
			slog.Error("failed to init module courier", "error", err)
			os.Exit(1)
		}
	}
}
