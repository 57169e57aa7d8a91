package inbound

import "net/http"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (RegisterResponse) Message() string {
	return "Registration successful."
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}
