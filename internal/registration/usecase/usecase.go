// Package usecase implements the registration module's business logic.
package usecase

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/pkg/clock"
	"github.com/shandysiswandi/shopbite/internal/pkg/config"
	"github.com/shandysiswandi/shopbite/internal/pkg/hash"
	"github.com/shandysiswandi/shopbite/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopbite/internal/pkg/instrument"
	"github.com/shandysiswandi/shopbite/internal/pkg/uid"
	"github.com/shandysiswandi/shopbite/internal/pkg/validator"
	"github.com/shandysiswandi/shopbite/internal/registration/entity"
	"go.opentelemetry.io/otel/trace"
)

// UserRegisteredEvent is the registration fact handed to the messaging
// outbound after a credential is persisted.
type UserRegisteredEvent struct {
	UserID string
	Name   string
	Email  string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
}

type repoDB interface {
	CreateCredential(ctx context.Context, in entity.NewCredential) error
	GetCredentialByEmail(ctx context.Context, email string) (*entity.Credential, error)
	DeleteCredential(ctx context.Context, id string) error
}

// Usecase carries the registration module's dependencies.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hasher        hash.Hash
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

// Dependency lists what New needs to build a Usecase.
type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Hasher        hash.Hash
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

// New constructs the registration usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hasher:        dep.Hasher,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("registration.usecase").Start(ctx, name)
}
