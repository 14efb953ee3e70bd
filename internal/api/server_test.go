package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gatherly/internal/auth"
	"gatherly/internal/store/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "gatherly-api-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	s, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	users := auth.NewUserStore(s)
	authenticator := auth.NewPasswordAuthenticator(users)
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	return NewServer(s, users, authenticator, jwt)
}

// doJSON sends a request with an optional token and decodes the response
// into out when out is non-nil.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func registerUser(t *testing.T, handler http.Handler, email, name string) sessionResponse {
	t.Helper()

	var session sessionResponse
	rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       email,
		"displayName": name,
		"password":    "a solid password",
	}, &session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	return session
}

func TestAuthEndpoints(t *testing.T) {
	handler := newTestServer(t).Router()

	session := registerUser(t, handler, "alice@example.com", "Alice")
	if session.Token == "" || session.User.Email != "alice@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}

	t.Run("login returns a fresh token", func(t *testing.T) {
		var login sessionResponse
		rec := doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "a solid password",
		}, &login)
		if rec.Code != http.StatusOK || login.Token == "" {
			t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bad credentials get 401", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("login returned %d", rec.Code)
		}
	})

	t.Run("duplicate email gets 409", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":       "alice@example.com",
			"displayName": "Alice 2",
			"password":    "another password",
		}, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("register returned %d", rec.Code)
		}
	})

	t.Run("me requires a token", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/me", "", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("me returned %d without token", rec.Code)
		}

		var me userPayload
		rec = doJSON(t, handler, http.MethodGet, "/api/me", session.Token, nil, &me)
		if rec.Code != http.StatusOK || me.ID != session.User.ID {
			t.Errorf("me returned %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestEventEndpoints(t *testing.T) {
	handler := newTestServer(t).Router()
	owner := registerUser(t, handler, "alice@example.com", "Alice")
	outsider := registerUser(t, handler, "mallory@example.com", "Mallory")

	var created struct {
		ID       string `json:"id"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/events", owner.Token, map[string]string{
		"name":  "Cabin Weekend",
		"dates": "2026-10-02 to 2026-10-04",
		"type":  "weekend",
	}, &created)
	if rec.Code != http.StatusCreated || created.ID == "" {
		t.Fatalf("create event returned %d: %s", rec.Code, rec.Body.String())
	}

	t.Run("validation failures get 400 with messages", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/events", owner.Token, map[string]string{"name": "x"}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("create returned %d", rec.Code)
		}
	})

	t.Run("owner lists and reads the event", func(t *testing.T) {
		var summaries []map[string]any
		rec := doJSON(t, handler, http.MethodGet, "/api/events", owner.Token, nil, &summaries)
		if rec.Code != http.StatusOK || len(summaries) != 1 {
			t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, handler, http.MethodGet, "/api/events/"+created.ID+"/", owner.Token, nil, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("get returned %d", rec.Code)
		}
	})

	t.Run("non-members are forbidden", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/events/"+created.ID+"/", outsider.Token, nil, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("get returned %d for outsider", rec.Code)
		}
	})

	t.Run("expense flow through settlement summary", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/expenses/", created.ID), owner.Token, map[string]any{
			"name":   "Groceries",
			"amount": 90,
			"paidBy": owner.User.ID,
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense returned %d: %s", rec.Code, rec.Body.String())
		}

		var summary struct {
			Total    float64            `json:"total"`
			Balances map[string]float64 `json:"balances"`
		}
		rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/events/%s/expenses/summary", created.ID), owner.Token, nil, &summary)
		if rec.Code != http.StatusOK {
			t.Fatalf("summary returned %d: %s", rec.Code, rec.Body.String())
		}
		if summary.Total != 90 {
			t.Errorf("total = %v, want 90", summary.Total)
		}
		// Sole member paid and owes their own share, so nets to zero.
		if balance := summary.Balances[owner.User.ID]; balance != 0 {
			t.Errorf("balance = %v, want 0", balance)
		}
	})

	t.Run("responses carry display strings", func(t *testing.T) {
		var summaries []map[string]any
		rec := doJSON(t, handler, http.MethodGet, "/api/events", owner.Token, nil, &summaries)
		if rec.Code != http.StatusOK || len(summaries) != 1 {
			t.Fatalf("list returned %d: %s", rec.Code, rec.Body.String())
		}
		if summaries[0]["roleDisplay"] != "Owner" {
			t.Errorf("roleDisplay = %v, want Owner", summaries[0]["roleDisplay"])
		}
		if display, _ := summaries[0]["createdAtDisplay"].(string); display == "" {
			t.Error("createdAtDisplay missing from event summary")
		}

		var members map[string]map[string]any
		rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/events/%s/members", created.ID), owner.Token, nil, &members)
		if rec.Code != http.StatusOK {
			t.Fatalf("members returned %d: %s", rec.Code, rec.Body.String())
		}
		if got := members[owner.User.ID]["initials"]; got != "A" {
			t.Errorf("initials = %v, want A", got)
		}

		var summary struct {
			TotalDisplay   string            `json:"totalDisplay"`
			CategoryShares map[string]string `json:"categoryShares"`
		}
		rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/events/%s/expenses/summary", created.ID), owner.Token, nil, &summary)
		if rec.Code != http.StatusOK {
			t.Fatalf("summary returned %d: %s", rec.Code, rec.Body.String())
		}
		if summary.TotalDisplay != "$90.00" {
			t.Errorf("totalDisplay = %q, want $90.00", summary.TotalDisplay)
		}
		if got := summary.CategoryShares["other"]; got != "100.0%" {
			t.Errorf("categoryShares[other] = %q, want 100.0%%", got)
		}
	})

	t.Run("invitation flow", func(t *testing.T) {
		guest := registerUser(t, handler, "bob@example.com", "Bob")

		var invitation struct {
			ID string `json:"id"`
		}
		rec := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/invitations/", created.ID), owner.Token, map[string]string{
			"email": "bob@example.com",
			"role":  "editor",
		}, &invitation)
		if rec.Code != http.StatusCreated || invitation.ID == "" {
			t.Fatalf("invite returned %d: %s", rec.Code, rec.Body.String())
		}

		var pending []map[string]any
		rec = doJSON(t, handler, http.MethodGet, "/api/invitations", guest.Token, nil, &pending)
		if rec.Code != http.StatusOK || len(pending) != 1 {
			t.Fatalf("pending invitations returned %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/invitations/%s/accept", created.ID, invitation.ID), guest.Token, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("accept returned %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, handler, http.MethodGet, "/api/events/"+created.ID+"/", guest.Token, nil, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("accepted guest get returned %d", rec.Code)
		}
	})

	t.Run("only the invitee declines", func(t *testing.T) {
		invitee := registerUser(t, handler, "dora@example.com", "Dora")

		var invitation struct {
			ID string `json:"id"`
		}
		rec := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/invitations/", created.ID), owner.Token, map[string]string{
			"email": "dora@example.com",
			"role":  "member",
		}, &invitation)
		if rec.Code != http.StatusCreated {
			t.Fatalf("invite returned %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/invitations/%s/decline", created.ID, invitation.ID), outsider.Token, nil, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("decline by another user returned %d, want 403", rec.Code)
		}

		var pending []map[string]any
		rec = doJSON(t, handler, http.MethodGet, "/api/invitations", invitee.Token, nil, &pending)
		if rec.Code != http.StatusOK || len(pending) != 1 {
			t.Fatalf("invitation should survive the foreign decline, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("admins cannot remove other members", func(t *testing.T) {
		admin := registerUser(t, handler, "cara@example.com", "Cara")

		var invitation struct {
			ID string `json:"id"`
		}
		rec := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/invitations/", created.ID), owner.Token, map[string]string{
			"email": "cara@example.com",
			"role":  "admin",
		}, &invitation)
		if rec.Code != http.StatusCreated {
			t.Fatalf("invite returned %d: %s", rec.Code, rec.Body.String())
		}
		rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/events/%s/invitations/%s/accept", created.ID, invitation.ID), admin.Token, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("accept returned %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/events/%s/members/%s", created.ID, owner.User.ID), admin.Token, nil, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("admin removing another member returned %d, want 403", rec.Code)
		}

		// Removing yourself needs no manage permission.
		rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/events/%s/members/%s", created.ID, admin.User.ID), admin.Token, nil, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("self-removal returned %d, want 204", rec.Code)
		}
	})

	t.Run("only the owner deletes", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodDelete, "/api/events/"+created.ID+"/", outsider.Token, nil, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("delete returned %d for outsider", rec.Code)
		}

		rec = doJSON(t, handler, http.MethodDelete, "/api/events/"+created.ID+"/", owner.Token, nil, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete returned %d for owner", rec.Code)
		}
	})
}
