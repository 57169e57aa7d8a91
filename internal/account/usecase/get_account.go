package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/pkg/goerror"
)

// GetAccountInput identifies the projected account to fetch.
type GetAccountInput struct {
	UserID string `validate:"required,uuid"`
}

// GetAccount returns a single account projection row.
func (s *Usecase) GetAccount(ctx context.Context, in GetAccountInput) (*entity.Account, error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.repoDB.GetAccountByID(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get account", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return acc, nil
}
