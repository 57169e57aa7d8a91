package inbound

import (
	"github.com/shandysiswandi/shopbite/internal/pkg/router"
	"github.com/shandysiswandi/shopbite/internal/registration/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the registration workflow.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new user credential and publishes the registration event.
// @Summary Register user
// @Description Persists the credential and announces it to downstream services. The two succeed or fail together.
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Created credential"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/user/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(resp.Roles))
	for _, role := range resp.Roles {
		roles = append(roles, string(role))
	}

	return &RegisterResponse{
		ID:    resp.ID,
		Name:  resp.Name,
		Email: resp.Email,
		Roles: roles,
	}, nil
}
