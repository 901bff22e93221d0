package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForError maps an error to its HTTP status. Anything unrecognised is a 500.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondWithError writes the JSON error body for err. Server errors are logged
// and replaced by fallbackMsg so internals never reach the client.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallbackMsg})
		return
	}
	logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireActor fetches the authenticated actor, writing a 401 when it is missing.
func requireActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actor, ok
}
