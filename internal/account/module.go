// Package account wires the account module: the registration event
// subscriber, the projection store, and read endpoints over it.
package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/shopbite/internal/account/inbound"
	"github.com/shandysiswandi/shopbite/internal/account/outbound/db"
	"github.com/shandysiswandi/shopbite/internal/account/usecase"
	"github.com/shandysiswandi/shopbite/internal/pkg/clock"
	"github.com/shandysiswandi/shopbite/internal/pkg/config"
	"github.com/shandysiswandi/shopbite/internal/pkg/goroutine"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/messaging"
	"github.com/shandysiswandi/shopbite/internal/pkg/router"
	"github.com/shandysiswandi/shopbite/internal/pkg/uid"
	"github.com/shandysiswandi/shopbite/internal/pkg/validator"
)

// Dependency lists the shared infrastructure the module needs.
type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Routine    *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New builds the module, registers its HTTP endpoints, and starts the
// event subscriber.
func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repoDB,
		Validator:  dep.Validator,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	inbound.RegisterMQConsumer(ctx, dep.Config, dep.Routine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
