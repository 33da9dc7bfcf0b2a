package util

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	storeErr := errors.New("disk full")

	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain error passes through", NewConflict("taken", nil), "CONFLICT", http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewValidationError("bad", nil)), "VALIDATION_FAILED", http.StatusBadRequest},
		{"fiber error", fiber.NewError(http.StatusForbidden, "nope"), "REQUEST_FAILED", http.StatusForbidden},
		{"deadline", fmt.Errorf("generate: %w", context.DeadlineExceeded), "TIMEOUT", http.StatusGatewayTimeout},
		{"no rows", sql.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"persistence", NewPersistenceError(storeErr), "PERSISTENCE_FAILED", http.StatusBadGateway},
		{"unknown", storeErr, "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.status, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	storeErr := errors.New("disk full")
	err := NewPersistenceError(storeErr)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, "ticket could not be persisted: disk full", err.Error())
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("update: %w", NewConflict("invalid status transition", nil))
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}
