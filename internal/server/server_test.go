package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sumii-mobile-api/internal/bootstrap"
	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			Version:            "0.1.0",
			LogFilePath:        filepath.Join(dir, "app.log"),
			RealtimeLogPath:    filepath.Join(dir, "realtime.log"),
			CorsAllowedOrigins: "*",
			FrontendURL:        "https://app.sumii.test",
		},
		JWT:       config.JWTConfig{Secret: "server-test-secret", ExpireMinutes: 60},
		SMTP:      config.SMTPConfig{SenderName: "Sumii", FromEmail: "noreply@sumii.test"},
		Storage:   config.StorageConfig{Driver: "memory", Bucket: "sumii-test"},
		Mistral:   config.MistralConfig{BaseURL: "http://127.0.0.1:1", Agents: map[string]string{}},
		Anwalt:    config.AnwaltConfig{BaseURL: "http://127.0.0.1:1", APIKey: "hook-key"},
		RateLimit: config.RateLimitConfig{LoginPerMinute: 3, ChatPerSecond: 1, ChatBurst: 5},
		SSE:       config.SSEConfig{PollInterval: time.Second, Keepalive: 15 * time.Second},
	}
}

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig(t)
	container, err := bootstrap.NewContainer(testdb.New(t), cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return New(cfg, container).GetApp()
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, _ := call(t, app, "POST", "/api/v1/auth/register", "", dto.RegisterRequest{Email: email, Password: "sicher-123"})
	require.Equal(t, http.StatusCreated, status)
	status, body := call(t, app, "POST", "/api/v1/auth/login", "", dto.LoginRequest{Email: email, Password: "sicher-123"})
	require.Equal(t, http.StatusOK, status)
	return body["access_token"].(string)
}

func TestRegisterLoginAndMe(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "anna@example.com")

	status, body := call(t, app, "GET", "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anna@example.com", body["email"])

	status, _ = call(t, app, "GET", "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, "POST", "/api/v1/auth/register", "", dto.RegisterRequest{Email: "anna@example.com", Password: "sicher-123"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestServer(t)
	status, body := call(t, app, "POST", "/api/v1/auth/register", "", map[string]string{"email": "nope", "password": "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLoginIsRateLimited(t *testing.T) {
	app := newTestServer(t)
	creds := dto.LoginRequest{Email: "ghost@example.com", Password: "wrong"}
	for i := 0; i < 3; i++ {
		status, _ := call(t, app, "POST", "/api/v1/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, _ := call(t, app, "POST", "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestConversationOwnership(t *testing.T) {
	app := newTestServer(t)
	anna := login(t, app, "anna@example.com")
	ben := login(t, app, "ben@example.com")

	status, conv := call(t, app, "POST", "/api/v1/conversations", anna, map[string]string{"title": "Heizung kaputt"})
	require.Equal(t, http.StatusCreated, status)
	id := conv["id"].(string)

	status, _ = call(t, app, "GET", "/api/v1/conversations/"+id, anna, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, "GET", "/api/v1/conversations/"+id, ben, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, "GET", "/api/v1/conversations/not-a-uuid", anna, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = call(t, app, "DELETE", "/api/v1/conversations/"+id, anna, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, app, "GET", "/api/v1/conversations/"+id, anna, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthStatusAndMetrics(t *testing.T) {
	app := newTestServer(t)

	status, body := call(t, app, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "sumii-mobile-api", body["service"])
	assert.Equal(t, "degraded", body["status"])

	status, body = call(t, app, "GET", "/api/v1/status/agents", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["mistral_api_configured"])

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "sumii_sse_connections")
}

func TestWebhooksRequireAPIKey(t *testing.T) {
	app := newTestServer(t)
	payload := map[string]interface{}{"case_id": "case-1", "lawyer_id": 7, "response_text": "Ich übernehme."}

	status, _ := call(t, app, "POST", "/api/v1/webhooks/lawyer-response", "", payload)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSyncRequiresAuthAndReturnsFullSync(t *testing.T) {
	app := newTestServer(t)
	token := login(t, app, "anna@example.com")

	status, _ := call(t, app, "POST", "/api/v1/sync", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, "POST", "/api/v1/sync", token, map[string]interface{}{})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_full_sync"])
}
