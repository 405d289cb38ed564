//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// These tests run against a live server (and its Redis). Start the server,
// then: go test -tags e2e ./test/e2e/...
const (
	defaultBaseURL = "http://localhost:8080/api/v1"
	accessCode     = "medquiz2024"
	clientID       = "e2e-client"
)

var (
	baseURL      string
	sessionToken string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	os.Exit(m.Run())
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, method, path string, payload any) (int, *envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, &env
}

func TestHealth(t *testing.T) {
	resp, err := http.Get(fmt.Sprintf("%s/health", baseURL[:len(baseURL)-len("/api/v1")]))
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health returned %d", resp.StatusCode)
	}
}

func TestUnlockRejectsWrongCode(t *testing.T) {
	status, env := call(t, http.MethodPost, "/auth/unlock", map[string]string{"code": "definitely-wrong"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "INVALID_ACCESS_CODE" {
		t.Fatalf("expected INVALID_ACCESS_CODE, got %+v", env.Error)
	}
}

func TestUnlockAndSession(t *testing.T) {
	status, env := call(t, http.MethodPost, "/auth/unlock", map[string]string{"code": "  " + accessCode + "  "})
	if status != http.StatusOK {
		t.Fatalf("unlock: expected 200, got %d (%+v)", status, env.Error)
	}

	var data struct {
		Token     string `json:"token"`
		ExpiresAt int64  `json:"expires_at"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode unlock data: %v", err)
	}
	if data.Token == "" || data.ExpiresAt == 0 {
		t.Fatalf("incomplete unlock data: %+v", data)
	}
	sessionToken = data.Token

	status, env = call(t, http.MethodGet, "/auth/session", nil)
	if status != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", status)
	}
	var session struct {
		Authorized bool  `json:"authorized"`
		ExpiresAt  int64 `json:"expires_at"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !session.Authorized || session.ExpiresAt != data.ExpiresAt {
		t.Fatalf("unexpected session after unlock: %+v", session)
	}
}

func TestSubmitWithoutQuiz(t *testing.T) {
	if sessionToken == "" {
		t.Skip("requires TestUnlockAndSession")
	}
	status, env := call(t, http.MethodPost, "/quiz/submit", nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "QUIZ_NOT_LOADED" {
		t.Fatalf("expected QUIZ_NOT_LOADED, got %+v", env.Error)
	}
}

func TestGenerateTooShort(t *testing.T) {
	if sessionToken == "" {
		t.Skip("requires TestUnlockAndSession")
	}
	status, env := call(t, http.MethodPost, "/quiz/generate", map[string]string{"source_text": "way too short"})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Error == nil || env.Error.Code != "SOURCE_TEXT_TOO_SHORT" {
		t.Fatalf("expected SOURCE_TEXT_TOO_SHORT, got %+v", env.Error)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	status, _ := call(t, http.MethodPut, "/preference/theme", map[string]string{"theme": "dark"})
	if status != http.StatusOK {
		t.Fatalf("set theme: expected 200, got %d", status)
	}

	status, env := call(t, http.MethodGet, "/preference/theme", nil)
	if status != http.StatusOK {
		t.Fatalf("get theme: expected 200, got %d", status)
	}
	var data struct {
		Theme string `json:"theme"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode theme: %v", err)
	}
	if data.Theme != "dark" {
		t.Fatalf("expected dark, got %q", data.Theme)
	}
}

func TestLogout(t *testing.T) {
	if sessionToken == "" {
		t.Skip("requires TestUnlockAndSession")
	}
	status, _ := call(t, http.MethodPost, "/auth/logout", nil)
	if status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}

	status, env := call(t, http.MethodGet, "/auth/session", nil)
	if status != http.StatusOK {
		t.Fatalf("session after logout: expected 200, got %d", status)
	}
	var session struct {
		Authorized bool `json:"authorized"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Authorized {
		t.Fatal("still authorized after logout")
	}
}
