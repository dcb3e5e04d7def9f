package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chronocraft/chronocraft/models"
	"gorm.io/gorm"
)

// OrderNumberDatePart formats the date segment of an order number.
func OrderNumberDatePart(now time.Time) string {
	return now.Format("20060102")
}

// NextSequence derives the next 4-digit daily sequence from the highest
// order number already issued today. An unparsable or empty last number
// starts the day at 1.
func NextSequence(lastOrderNumber, datePart string) int {
	prefix := OrderNumberPrefix + datePart
	if !strings.HasPrefix(lastOrderNumber, prefix) {
		return 1
	}
	seq, err := strconv.Atoi(lastOrderNumber[len(prefix):])
	if err != nil {
		return 1
	}
	return seq + 1
}

// NextOrderNumber issues the next order number, ORD + YYYYMMDD + a 4-digit
// sequence that resets each day. Must run inside the order placement
// transaction so two concurrent checkouts cannot draw the same number.
func NextOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	datePart := OrderNumberDatePart(now)
	var last models.Order
	err := tx.Where("order_number LIKE ?", OrderNumberPrefix+datePart+"%").
		Order("order_number DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return "", InternalErr("Failed to generate order number", err)
	}
	seq := NextSequence(last.OrderNumber, datePart)
	return fmt.Sprintf("%s%s%04d", OrderNumberPrefix, datePart, seq), nil
}
