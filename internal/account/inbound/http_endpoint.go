package inbound

import (
	"github.com/shandysiswandi/shopbite/internal/account/entity"
	"github.com/shandysiswandi/shopbite/internal/account/usecase"
	"github.com/shandysiswandi/shopbite/internal/pkg/router"
)

// HTTPEndpoint exposes read handlers over the account projection.
type HTTPEndpoint struct {
	uc uc
}

// GetAccount returns one projected account.
// @Summary Get account
// @Description Returns the account projection for a user id.
// @Tags Account
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} router.successResponse{data=AccountResponse} "Account detail"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/accounts/{id} [get]
func (h *HTTPEndpoint) GetAccount(r *router.Request) (any, error) {
	acc, err := h.uc.GetAccount(r.Context(), usecase.GetAccountInput{
		UserID: r.GetParam("id"),
	})
	if err != nil {
		return nil, err
	}

	return toAccountResponse(*acc), nil
}

// ListAccounts returns a page of projected accounts.
// @Summary List accounts
// @Description Returns account projections ordered by creation time.
// @Tags Account
// @Produce json
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=AccountsResponse} "Account list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/accounts [get]
func (h *HTTPEndpoint) ListAccounts(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]AccountResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toAccountResponse(item))
	}

	return AccountsResponse{Accounts: resp}, nil
}

func toAccountResponse(acc entity.Account) AccountResponse {
	return AccountResponse{
		UserID:    acc.UserID,
		Name:      acc.Name,
		Email:     acc.Email,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}
