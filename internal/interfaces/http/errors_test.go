package http

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-ledger/internal/domain"
)

func TestStatusFor_ErroresEnvueltos(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("adjust: %w", domain.ErrInsufficientStock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
		{fmt.Errorf("postgres: %w", domain.ErrPersistenceConflict), fiber.StatusServiceUnavailable, "PERSISTENCE_CONFLICT"},
		{domain.ErrOrderNotPending, fiber.StatusConflict, "ORDER_NOT_PENDING"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code, _ := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestWriteError_ConflictoIncluyeRetryAfter(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, domain.ErrPersistenceConflict)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, retryAfterSeconds, resp.Header.Get("Retry-After"))
}
