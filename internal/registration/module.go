// Package registration wires the registration module: HTTP inbound,
// PostgreSQL persistence, and event publishing.
package registration

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/shopbite/internal/pkg/clock"
	"github.com/shandysiswandi/shopbite/internal/pkg/config"
	"github.com/shandysiswandi/shopbite/internal/pkg/hash"
	"github.com/shandysiswandi/shopbite/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/messaging"
	"github.com/shandysiswandi/shopbite/internal/pkg/router"
	"github.com/shandysiswandi/shopbite/internal/pkg/uid"
	"github.com/shandysiswandi/shopbite/internal/pkg/validator"
	"github.com/shandysiswandi/shopbite/internal/registration/inbound"
	"github.com/shandysiswandi/shopbite/internal/registration/outbound/db"
	"github.com/shandysiswandi/shopbite/internal/registration/outbound/mq"
	"github.com/shandysiswandi/shopbite/internal/registration/usecase"
)

// Dependency lists the shared infrastructure the module needs.
type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Hasher      hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

// New builds the module and registers its HTTP endpoints.
func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Hasher:        dep.Hasher,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
