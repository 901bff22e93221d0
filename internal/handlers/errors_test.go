package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"wrapped validation", fmt.Errorf("%w: bad", apperrors.ErrValidation), http.StatusBadRequest},
		{"app not found", apperrors.NewNotFoundError("gone"), http.StatusNotFound},
		{"conflict", apperrors.NewConflictError("not pending"), http.StatusConflict},
		{"duplicate", fmt.Errorf("save: %w", apperrors.ErrDuplicate), http.StatusConflict},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"other app code", apperrors.NewAppError(http.StatusUnprocessableEntity, "odd", nil), http.StatusUnprocessableEntity},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"internal", apperrors.NewAppError(http.StatusInternalServerError, "db", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
