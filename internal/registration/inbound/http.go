// Package inbound exposes the registration module's HTTP surface.
package inbound

import (
	"context"

	"github.com/shandysiswandi/shopbite/internal/pkg/router"
	"github.com/shandysiswandi/shopbite/internal/registration/usecase"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/user/register", end.Register)
}
