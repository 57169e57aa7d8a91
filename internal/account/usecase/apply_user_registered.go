package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
)

// ApplyUserRegisteredInput is a registration event as seen by the projection.
type ApplyUserRegisteredInput struct {
	UserID string `validate:"required,uuid"`
	Name   string `validate:"required,max=100"`
	Email  string `validate:"required,email,max=255"`
}

// ApplyUserRegistered folds a registration event into the account read
// model. The write is a single upsert keyed on the user id, so applying the
// same event twice, or racing another group member on a redelivery, leaves
// exactly one row with the event's values.
func (s *Usecase) ApplyUserRegistered(ctx context.Context, in ApplyUserRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ApplyUserRegistered")
	defer span.End()

	// Invalid payloads can never succeed on retry, so they are dropped
	// instead of returned as an error.
	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "dropping invalid user registered event", "user_id", in.UserID, "error", err)
		return nil
	}

	err := s.repoDB.UpsertAccount(ctx, entity.UpsertAccount{
		UserID: in.UserID,
		Name:   in.Name,
		Email:  in.Email,
		At:     s.clock.Now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upsert account projection", "user_id", in.UserID, "error", err)
		return err
	}

	return nil
}
