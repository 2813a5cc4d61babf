package handlers

import (
	"errors"
	"net/http"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user's id from the JWT
// claims stored by the auth middleware. Returns "" when unauthenticated.
func getUserIDFromContext(c echo.Context) string {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// respondError maps a domain error to its HTTP status and the
// {success:false, message} envelope. Domain errors never escape a handler
// in any other shape.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsAuth(err):
		status = http.StatusUnauthorized
	case apperrors.IsCapacity(err):
		status = http.StatusConflict
	default:
		var ue *apperrors.UpstreamError
		if errors.As(err, &ue) {
			status = http.StatusBadGateway
		}
	}
	return c.JSON(status, echo.Map{"success": false, "message": err.Error()})
}
