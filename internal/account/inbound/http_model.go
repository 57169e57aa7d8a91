package inbound

import "time"

type AccountResponse struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
