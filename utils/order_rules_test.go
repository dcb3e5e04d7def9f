package utils

import (
	"testing"

	"github.com/chronocraft/chronocraft/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateOrderCancellable(t *testing.T) {
	assert.NoError(t, ValidateOrderCancellable(models.Order{Status: models.OrderStatusProcessing}))

	err := ValidateOrderCancellable(models.Order{Status: models.OrderStatusCancelled})
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "already cancelled")
}

func TestValidateOrderCancellableAfterShipping(t *testing.T) {
	// A shipped order is past the customer's cancellation window. The
	// rejection is a plain validation error; it must not advertise the
	// admin-only Cancelled transition.
	err := ValidateOrderCancellable(models.Order{Status: models.OrderStatusShipped})
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Nil(t, GetAppError(err).Details)
}

func TestValidateItemCancellableSecondCancelRejected(t *testing.T) {
	order := models.Order{Status: models.OrderStatusProcessing}
	item := models.OrderItem{Status: models.ItemStatusProcessing}
	assert.NoError(t, ValidateItemCancellable(order, item))

	// A second cancel of the same line is refused, so its stock and refund
	// move at most once.
	item.Status = models.ItemStatusCancelled
	err := ValidateItemCancellable(order, item)
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "already cancelled")
}

func TestValidateItemCancellableDeliveredOrder(t *testing.T) {
	err := ValidateItemCancellable(models.Order{Status: models.OrderStatusDelivered},
		models.OrderItem{Status: models.ItemStatusDelivered})
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}
