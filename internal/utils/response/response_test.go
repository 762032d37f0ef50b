package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	apperrors "brokerage/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFromError_DomainError(t *testing.T) {
	err := apperrors.ErrActiveSubmission.WithDetails(map[string]interface{}{"document_side": "front"})
	status, body := run(t, err)

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "ACTIVE_SUBMISSION_EXISTS", body["code"])
	assert.Equal(t, map[string]interface{}{"document_side": "front"}, body["details"])
}

func TestFromError_UnknownErrorIsHidden(t *testing.T) {
	status, body := run(t, errors.New("pq: connection refused"))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, body, "code")
}
