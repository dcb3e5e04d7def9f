package utils

import (
	"github.com/chronocraft/chronocraft/models"
	"gorm.io/gorm"
)

// ReserveStock atomically decrements a variant's stock. The check and the
// decrement are one conditional UPDATE so two simultaneous orders cannot
// both take the last unit. Fails with an insufficient-stock error carrying
// the quantity actually available.
func ReserveStock(tx *gorm.DB, variantID string, quantity int) error {
	result := tx.Model(&models.Variant{}).
		Where("id = ? AND stock >= ?", variantID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return InternalErr("Failed to reserve stock", result.Error)
	}
	if result.RowsAffected == 0 {
		var variant models.Variant
		if err := tx.Select("stock", "color_name").First(&variant, "id = ?", variantID).Error; err != nil {
			return NotFoundErr("Product variant not found")
		}
		return InsufficientStockErr(variant.ColorName, variant.Stock, quantity)
	}
	return nil
}

// ReleaseStock returns units to the sellable pool. Used on cancellation,
// return and rollback; callers must guard against double-release by
// checking the line's current status first.
func ReleaseStock(tx *gorm.DB, variantID string, quantity int) error {
	result := tx.Model(&models.Variant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return InternalErr("Failed to restore stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundErr("Product variant not found")
	}
	return nil
}
