package models

import (
	"fmt"
	"strings"
	"time"
)

// Order status constants
const (
	OrderStatusProcessing      = "Processing"
	OrderStatusShipped         = "Shipped"
	OrderStatusDelivered       = "Delivered"
	OrderStatusCancelled       = "Cancelled"
	OrderStatusFailed          = "Failed"
	OrderStatusReturnRequested = "Return Requested"
	OrderStatusReturned        = "Returned"
)

// Item status constants
const (
	ItemStatusProcessing = "Processing"
	ItemStatusShipped    = "Shipped"
	ItemStatusDelivered  = "Delivered"
	ItemStatusCancelled  = "Cancelled"
)

// Payment method constants
const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "RAZORPAY"
	PaymentMethodWallet   = "WALLET"
)

// Payment status constants
const (
	PaymentStatusPending        = "Pending"
	PaymentStatusCompleted      = "Completed"
	PaymentStatusFailed         = "Failed"
	PaymentStatusOrderCancelled = "Order Cancelled"
	PaymentStatusRefunded       = "Refunded"
)

// Return status constants
const (
	ReturnStatusPending  = "Pending"
	ReturnStatusApproved = "Approved"
	ReturnStatusRejected = "Rejected"
)

// orderTransitions is the full transition table for Order.Status.
// Returned, Failed and Cancelled are terminal and have no entry.
var orderTransitions = map[string][]string{
	OrderStatusProcessing:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:       {OrderStatusReturnRequested},
	OrderStatusReturnRequested: {OrderStatusReturned, OrderStatusDelivered},
}

// AllowedTransitions returns the statuses an order may move to from the
// given status. Terminal statuses return an empty slice.
func AllowedTransitions(from string) []string {
	next := orderTransitions[from]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether an order status change is legal.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status has no outgoing transitions.
func IsTerminalStatus(status string) bool {
	return len(orderTransitions[status]) == 0
}

// ValidOrderStatus reports whether a string names a known order status.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusFailed, OrderStatusReturnRequested,
		OrderStatusReturned:
		return true
	}
	return false
}

// NormalizePaymentMethod upper-cases and validates a requested payment
// method. Returns the canonical constant and whether it was recognised.
func NormalizePaymentMethod(method string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case PaymentMethodCOD:
		return PaymentMethodCOD, true
	case PaymentMethodRazorpay:
		return PaymentMethodRazorpay, true
	case PaymentMethodWallet:
		return PaymentMethodWallet, true
	}
	return "", false
}

// Payment is the payment sub-record embedded in an order. Gateway IDs are
// only populated for RAZORPAY payments.
type Payment struct {
	Method            string `json:"method"`
	Status            string `json:"status"`
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
}

// AwaitingVerification reports whether a gateway callback can settle this
// payment. Only a Pending RAZORPAY payment may complete or fail through
// verification; a Failed payment must go back through initiation, which
// re-reserves the stock released on failure.
func (p Payment) AwaitingVerification() bool {
	return p.Method == PaymentMethodRazorpay && p.Status == PaymentStatusPending
}

// Pricing is the pricing sub-record embedded in an order. Subtotal, tax and
// final amount are recomputed whenever line items change; the shipping fee
// is fixed at order time and never prorated per item.
type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	ShippingFee float64 `json:"shipping_fee"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
}

type Order struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	OrderNumber          string      `gorm:"uniqueIndex" json:"order_number"`
	UserID               uint        `gorm:"index" json:"user_id"`
	User                 User        `json:"user" gorm:"foreignKey:UserID"`
	AddressID            uint        `json:"address_id"`
	Address              Address     `json:"address" gorm:"foreignKey:AddressID"`
	Items                []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Payment              Payment     `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Pricing              Pricing     `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`
	CouponCode           string      `json:"coupon_code,omitempty"`
	CouponDiscount       float64     `json:"coupon_discount,omitempty"`
	Status               string      `gorm:"index" json:"status"`
	CancelReason         string      `json:"cancel_reason,omitempty"`
	ExpectedDeliveryDate time.Time   `json:"expected_delivery_date"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// Return is the return sub-record embedded in an order item.
type Return struct {
	Requested   bool       `json:"requested"`
	Status      string     `json:"status,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	RequestDate *time.Time `json:"request_date,omitempty"`
}

// OrderItem is a line of an order. Price is the unit price captured at
// order time and is never recomputed from the live product.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID"`
	VariantID string  `gorm:"type:uuid" json:"variant_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	Return    Return  `gorm:"embedded;embeddedPrefix:return_" json:"return"`
}

// Subtotal is the line's contribution to the order subtotal.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ActiveItems returns the lines that are neither cancelled nor approved for
// return. Stock conservation is computed over these.
func (o *Order) ActiveItems() []OrderItem {
	var active []OrderItem
	for _, item := range o.Items {
		if item.Status == ItemStatusCancelled {
			continue
		}
		if item.Return.Requested || item.Return.Status == ReturnStatusApproved {
			continue
		}
		active = append(active, item)
	}
	return active
}

// AllItemsCancelled reports whether every line of the order is cancelled.
func (o *Order) AllItemsCancelled() bool {
	for _, item := range o.Items {
		if item.Status != ItemStatusCancelled {
			return false
		}
	}
	return len(o.Items) > 0
}

// String renders the transition table entry for error messages, e.g.
// "Processing -> [Shipped Cancelled]".
func TransitionHint(from string) string {
	return fmt.Sprintf("%s -> %v", from, AllowedTransitions(from))
}
