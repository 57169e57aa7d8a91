package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/pkg/goerror"
)

// ListAccountsInput carries the pagination window for the account list.
type ListAccountsInput struct {
	Limit  int32 `validate:"omitempty,gte=1,lte=100"`
	Offset int32 `validate:"omitempty,gte=0"`
}

// ListAccounts returns a page of account projection rows ordered by
// creation time.
func (s *Usecase) ListAccounts(ctx context.Context, in ListAccountsInput) ([]entity.Account, error) {
	ctx, span := s.startSpan(ctx, "ListAccounts")
	defer span.End()

	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListAccounts(ctx, in.Limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list accounts", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}
