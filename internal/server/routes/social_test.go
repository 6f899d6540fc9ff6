package routes

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gramboard/gramboard/internal/app/ports"
	"github.com/gramboard/gramboard/internal/app/services"
)

func newSocialTestServer(accounts *memAccountStore) *echo.Echo {
	connect := services.NewConnectService(accounts, stubCodec{}, &stubExchanger{}, &stubResolver{}, true, nil)
	e := echo.New()
	NewSocialRoutes(connect, RequireAuth(testSecret), nil).RegisterRoutes(e)
	return e
}

func TestConnectStoresManualCredential(t *testing.T) {
	accounts := newMemAccountStore()
	e := newSocialTestServer(accounts)
	token := loginToken(t, 7, "ada@example.com", testSecret)

	rec := doJSON(e, http.MethodPost, "/api/social/connect", `{"platform":"Twitter","accessToken":"tok-1"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cred, err := accounts.GetCredential(context.Background(), 7, "twitter")
	if err != nil {
		t.Fatalf("credential not stored: %v", err)
	}
	if cred.AccessToken != "tok-1" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestConnectValidation(t *testing.T) {
	e := newSocialTestServer(newMemAccountStore())
	token := loginToken(t, 7, "ada@example.com", testSecret)

	rec := doJSON(e, http.MethodPost, "/api/social/connect", `{"platform":"twitter"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing token: expected 400, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/api/social/connect", `{"accessToken":"tok-1"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing platform: expected 400, got %d", rec.Code)
	}
}

func TestStatusListsConnections(t *testing.T) {
	accounts := newMemAccountStore()
	accounts.creds[accounts.key(7, "instagram")] = ports.Credential{
		UserID:      7,
		Platform:    "instagram",
		AccessToken: "tok",
		ConnectedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	e := newSocialTestServer(accounts)
	token := loginToken(t, 7, "ada@example.com", testSecret)

	rec := doJSON(e, http.MethodGet, "/api/social/status", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	connected, _ := decodeBody(t, rec)["connected"].([]any)
	if len(connected) != 1 {
		t.Fatalf("expected one connection, got %v", connected)
	}
	first := connected[0].(map[string]any)
	if first["platform"] != "instagram" || first["connectedAt"] != "2024-01-15T10:30:00Z" {
		t.Fatalf("unexpected connection payload: %v", first)
	}
	if _, hasToken := first["accessToken"]; hasToken {
		t.Fatal("status must not expose access tokens")
	}
}
