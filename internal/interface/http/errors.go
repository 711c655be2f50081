package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"starbook/internal/application"
	"starbook/pkg/response"
)

// writeError maps application outcomes onto HTTP statuses. The remote
// client maps these statuses straight back, so the two directions have
// to agree.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "not authenticated", nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error[any](c, http.StatusForbidden, "not allowed", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrConflict):
		response.Error[any](c, http.StatusConflict, "already exists", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
