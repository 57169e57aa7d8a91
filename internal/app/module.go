package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/shopbite/internal/account"
	"github.com/shandysiswandi/shopbite/internal/registration"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.registration.enabled") {
		if err := registration.New(registration.Dependency{
			DBConn:      a.dbConn,
			Router:      a.router,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Hasher:      a.hasher,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module registration", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.account.enabled") {
		if err := account.New(a.ctx, account.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Messaging:  a.messaging,
			Routine:    a.goroutine,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module account", "error", err)
			os.Exit(1)
		}
	}
}
