package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidTransitionErrDetails(t *testing.T) {
	err := InvalidTransitionErr("Delivered", "Shipped", []string{"Return Requested"})

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, KindInvalidTransition, err.Kind)

	details, ok := err.Details.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Delivered", details["current_status"])
	assert.Equal(t, "Shipped", details["attempted_status"])
	assert.Equal(t, []string{"Return Requested"}, details["allowed_statuses"])
}

func TestIsKind(t *testing.T) {
	err := InsufficientStockErr("Atlas Chrono", 2, 5)
	assert.True(t, IsKind(err, KindInsufficientStock))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindInsufficientStock))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestConflictErr(t *testing.T) {
	err := ConflictErr("Order was updated by another request. Please reload and try again.")
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.Equal(t, KindConflict, err.Kind)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := InternalErr("failed to load order", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to load order")
	assert.Contains(t, err.Error(), "connection refused")
}
