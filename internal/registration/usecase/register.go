package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/shopbite/internal/pkg/goerror"
	"github.com/shandysiswandi/shopbite/internal/pkg/idempotency"
	"github.com/shandysiswandi/shopbite/internal/registration/entity"
)

const defaultPublishTimeout = 10 * time.Second

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name     string `validate:"required,min=2,max=100,alphaspace"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,strongpassword"`

	// IdempotencyKey is optional; when present, retries with the same key
	// are rejected instead of re-running the registration.
	IdempotencyKey string `validate:"omitempty,max=128"`
}

// RegisterOutput is the created credential as exposed to clients.
type RegisterOutput struct {
	ID    string
	Name  string
	Email string
	Roles []entity.Role
}

// Register persists a new credential and announces it to the rest of the
// system. The credential insert and the event publish succeed or fail
// together: when the broker rejects the event, the stored credential is
// deleted again so no user exists without a corresponding event.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.IdempotencyKey == "" {
		return s.register(ctx, in)
	}

	var out *RegisterOutput
	err := s.idemp.Exec(ctx, "registration:"+in.IdempotencyKey, func(ctx context.Context) error {
		var execErr error
		out, execErr = s.register(ctx, in)
		return execErr
	})
	if errors.Is(err, idempotency.ErrAlreadyInProgress) {
		return nil, goerror.NewBusiness("Request is already being processed", goerror.CodeTooManyRequest)
	}
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyFailed) {
		return nil, goerror.NewBusiness("Duplicate request", goerror.CodeConflict)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Usecase) register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	_, err := s.repoDB.GetCredentialByEmail(ctx, in.Email)
	if err == nil {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to get credential by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	cred := entity.NewCredential{
		ID:           s.uuid.Generate(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Roles:        []entity.Role{entity.RoleUser},
		Enabled:      true,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repoDB.CreateCredential(ctx, cred); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to create credential", "email", cred.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.publishRegistered(ctx, cred); err != nil {
		s.compensateCreate(ctx, cred)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		ID:    cred.ID,
		Name:  cred.Name,
		Email: cred.Email,
		Roles: cred.Roles,
	}, nil
}

func (s *Usecase) publishRegistered(ctx context.Context, cred entity.NewCredential) error {
	timeout := s.cfg.GetSecond("modules.registration.publish_timeout")
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	pubCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.repoMessaging.PublishUserRegistered(pubCtx, UserRegisteredEvent{
		UserID: cred.ID,
		Name:   cred.Name,
		Email:  cred.Email,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered event", "user_id", cred.ID, "error", err)
		return err
	}
	return nil
}

// compensateCreate removes the credential stored before a failed publish.
// It runs detached from the request's cancellation so the rollback still
// happens when the caller has already given up.
func (s *Usecase) compensateCreate(ctx context.Context, cred entity.NewCredential) {
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultPublishTimeout)
	defer cancel()

	if err := s.repoDB.DeleteCredential(delCtx, cred.ID); err != nil {
		slog.ErrorContext(ctx, "failed to roll back credential after publish failure",
			"user_id", cred.ID, "email", cred.Email, "error", err)
	}
}
