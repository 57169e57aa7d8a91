// Package usecase implements the account module's business logic.
package usecase

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/pkg/clock"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	UpsertAccount(ctx context.Context, in entity.UpsertAccount) error
	GetAccountByID(ctx context.Context, userID string) (*entity.Account, error)
	ListAccounts(ctx context.Context, limit, offset int32) ([]entity.Account, error)
}

// Usecase carries the account module's dependencies.
type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

// Dependency lists what New needs to build a Usecase.
type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

// New constructs the account usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}
