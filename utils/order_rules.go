package utils

import (
	"net/http"

	"github.com/chronocraft/chronocraft/models"
	"gorm.io/gorm"
)

// ValidateOrderCancellable gates customer cancellation. Customers may only
// cancel while the order is still Processing; anything later goes through
// the return flow or an admin.
func ValidateOrderCancellable(order models.Order) error {
	if order.Status == models.OrderStatusCancelled {
		return NewAppError(http.StatusBadRequest, KindValidation, "Order already cancelled", nil)
	}
	if order.Status != models.OrderStatusProcessing {
		return NewAppError(http.StatusBadRequest, KindValidation,
			"Orders can only be cancelled while they are still processing", nil)
	}
	return nil
}

// ValidateItemCancellable gates cancellation of a single order line.
func ValidateItemCancellable(order models.Order, item models.OrderItem) error {
	if err := ValidateOrderCancellable(order); err != nil {
		return err
	}
	if item.Status == models.ItemStatusCancelled {
		return NewAppError(http.StatusBadRequest, KindValidation, "Item already cancelled", nil)
	}
	return nil
}

// ClaimOrderStatus moves an order between statuses with the precondition
// re-checked in the same UPDATE, the way ReserveStock guards stock. A zero
// RowsAffected means another request changed the order after it was loaded;
// the caller must abort its transaction before any side effects.
func ClaimOrderStatus(tx *gorm.DB, orderID uint, from, to string) error {
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		return InternalErr("Failed to update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		return ConflictErr("Order was updated by another request. Please reload and try again.")
	}
	return nil
}

// ClaimOrderItemStatus flips a single order line under the same
// conditional-update discipline, refusing a line already in the target
// status. Guards double cancellation of one line.
func ClaimOrderItemStatus(tx *gorm.DB, itemID uint, to string) error {
	result := tx.Model(&models.OrderItem{}).
		Where("id = ? AND status <> ?", itemID, to).
		Update("status", to)
	if result.Error != nil {
		return InternalErr("Failed to update order item status", result.Error)
	}
	if result.RowsAffected == 0 {
		return ConflictErr("Item was updated by another request. Please reload and try again.")
	}
	return nil
}
