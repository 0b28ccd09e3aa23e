package serverutils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sumii-mobile-api/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func newTestApp(secret string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.NewNopLogger())})
	app.Post("/validate", func(ctx *fiber.Ctx) error {
		var req signupRequest
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ValidateRequest(req); err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", req.Email))
	})
	app.Get("/me", JwtMiddleware(secret), func(ctx *fiber.Ctx) error {
		userID, err := CurrentUserID(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(userID.String())
	})
	return app
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestValidateRequestReturns422WithJSONFieldNames(t *testing.T) {
	app := newTestApp("s3cret")

	req := httptest.NewRequest("POST", "/validate", jsonBody(`{"email":"nope","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decode(t, resp.Body)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Equal(t, "must be at least 8 characters", errs["password"])
}

func TestJwtMiddleware(t *testing.T) {
	app := newTestApp("s3cret")
	userID := uuid.New()

	token, err := GenerateToken("s3cret", userID, "anna@example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, userID.String(), string(raw))

	forged, _ := GenerateToken("other", userID, "anna@example.com", time.Hour)
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Could not validate credentials", decode(t, resp.Body)["detail"])

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("s3cret", uuid.New(), "a@b.de", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
