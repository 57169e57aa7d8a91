package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

type accountResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func getAccount(t *testing.T, id string) (int, accountResponse) {
	t.Helper()

	status, raw := doJSON(t, http.MethodGet, "/api/v1/accounts/"+id, nil, nil)

	var out accountResponse
	if status == http.StatusOK {
		var env successEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode success envelope: %v body=%s", err, raw)
		}
		if err := json.Unmarshal(env.Data, &out); err != nil {
			t.Fatalf("decode account data: %v body=%s", err, raw)
		}
	}

	return status, out
}

func TestAccountProjection(t *testing.T) {

	t.Run("RegistrationAppearsInProjection", func(t *testing.T) {

		// Arrange
		email := uniqueEmail("mark")
		status, resp, _ := register(t, "Mark", email, "Password@0")
		if status != http.StatusCreated {
			t.Fatalf("setup registration failed with status %d", status)
		}

		// Act: the projection is eventually consistent, poll until the
		// consumer has applied the event.
		var got accountResponse
		deadline := time.Now().Add(10 * time.Second)
		for {
			var code int
			code, got = getAccount(t, resp.ID)
			if code == http.StatusOK {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("projection row for %s not visible before deadline, last status %d", resp.ID, code)
			}
			time.Sleep(250 * time.Millisecond)
		}

		// Assert
		if got.UserID != resp.ID || got.Name != "Mark" || got.Email != email {
			t.Fatalf("projection does not match registration: %+v", got)
		}
	})

	t.Run("UnknownAccount", func(t *testing.T) {

		// Act
		status, _ := getAccount(t, "3f1a7b58-9c1e-4b7a-8a44-2f3f0a9d6e21")

		// Assert
		if status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", status)
		}
	})

	t.Run("List", func(t *testing.T) {

		// Act
		status, raw := doJSON(t, http.MethodGet, "/api/v1/accounts?limit=5", nil, nil)

		// Assert
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", status, raw)
		}

		var env successEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode success envelope: %v body=%s", err, raw)
		}
		var data struct {
			Accounts []accountResponse `json:"accounts"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode account list: %v body=%s", err, raw)
		}
		if len(data.Accounts) > 5 {
			t.Fatalf("limit not honored, got %d accounts", len(data.Accounts))
		}
	})
}
