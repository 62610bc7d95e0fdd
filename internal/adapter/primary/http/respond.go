package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tucanshop/order-gateway/internal/core"
)

// respondError is the single mapping from the core error taxonomy to HTTP
// statuses. Handlers never inspect error strings.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrProviderNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case core.IsProviderError(err):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}
