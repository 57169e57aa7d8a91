// Package inbound exposes the account module's consumer and HTTP surface.
package inbound

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/account/usecase"
	"github.com/shandysiswandi/shopbite/internal/pkg/router"
)

type uc interface {
	ApplyUserRegistered(ctx context.Context, in usecase.ApplyUserRegisteredInput) error
	GetAccount(ctx context.Context, in usecase.GetAccountInput) (*entity.Account, error)
	ListAccounts(ctx context.Context, in usecase.ListAccountsInput) ([]entity.Account, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/accounts", end.ListAccounts)
	r.GET("/api/v1/accounts/:id", end.GetAccount)
}
