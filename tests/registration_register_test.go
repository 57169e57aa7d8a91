package tests

import (
	"encoding/json"
	"net/http"
	"testing"
)

type registerResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func register(t *testing.T, name, email, password string) (int, registerResponse, errorEnvelope) {
	t.Helper()

	status, raw := doJSON(t, http.MethodPost, "/api/v1/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)

	var out registerResponse
	var errEnv errorEnvelope
	if status == http.StatusCreated {
		var env successEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode success envelope: %v body=%s", err, raw)
		}
		if err := json.Unmarshal(env.Data, &out); err != nil {
			t.Fatalf("decode register data: %v body=%s", err, raw)
		}
	} else {
		if err := json.Unmarshal(raw, &errEnv); err != nil {
			t.Fatalf("decode error envelope: %v body=%s", err, raw)
		}
	}

	return status, out, errEnv
}

func TestRegister(t *testing.T) {

	t.Run("Success", func(t *testing.T) {

		// Arrange
		email := uniqueEmail("john")

		// Act
		status, resp, _ := register(t, "John", email, "Password@0")

		// Assert
		if status != http.StatusCreated {
			t.Fatalf("expected 201, got %d", status)
		}
		if resp.ID == "" || resp.Name != "John" || resp.Email != email {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if len(resp.Roles) != 1 || resp.Roles[0] != "USER" {
			t.Fatalf("expected roles [USER], got %v", resp.Roles)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {

		// Arrange
		email := uniqueEmail("dup")
		if status, _, _ := register(t, "John", email, "Password@0"); status != http.StatusCreated {
			t.Fatalf("setup registration failed with status %d", status)
		}

		// Act
		status, _, errEnv := register(t, "John", email, "Password@0")

		// Assert
		if status != http.StatusConflict {
			t.Fatalf("expected 409, got %d", status)
		}
		if errEnv.Message == "" {
			t.Fatal("expected error message in response")
		}
	})

	t.Run("WeakPassword", func(t *testing.T) {

		// Act
		status, _, errEnv := register(t, "John", uniqueEmail("weak"), "password")

		// Assert
		if status != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", status)
		}
		if _, ok := errEnv.Error["password"]; !ok {
			t.Fatalf("expected password field error, got %v", errEnv.Error)
		}
	})
}
