package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, true},
		{"processing to delivered", OrderStatusProcessing, OrderStatusDelivered, false},
		{"processing to returned", OrderStatusProcessing, OrderStatusReturned, false},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped to cancelled", OrderStatusShipped, OrderStatusCancelled, true},
		{"shipped to processing", OrderStatusShipped, OrderStatusProcessing, false},
		{"delivered to return requested", OrderStatusDelivered, OrderStatusReturnRequested, true},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, false},
		{"return requested to returned", OrderStatusReturnRequested, OrderStatusReturned, true},
		{"return requested to delivered", OrderStatusReturnRequested, OrderStatusDelivered, true},
		{"return requested to cancelled", OrderStatusReturnRequested, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusProcessing, false},
		{"returned is terminal", OrderStatusReturned, OrderStatusDelivered, false},
		{"failed is terminal", OrderStatusFailed, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.True(t, IsTerminalStatus(OrderStatusReturned))
	assert.True(t, IsTerminalStatus(OrderStatusFailed))
	assert.False(t, IsTerminalStatus(OrderStatusProcessing))
	assert.False(t, IsTerminalStatus(OrderStatusShipped))
	assert.False(t, IsTerminalStatus(OrderStatusDelivered))
	assert.False(t, IsTerminalStatus(OrderStatusReturnRequested))
}

func TestAllowedTransitionsIsACopy(t *testing.T) {
	first := AllowedTransitions(OrderStatusProcessing)
	first[0] = "Garbage"
	second := AllowedTransitions(OrderStatusProcessing)
	assert.Equal(t, OrderStatusShipped, second[0])
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"COD", PaymentMethodCOD, true},
		{"cod", PaymentMethodCOD, true},
		{" razorpay ", PaymentMethodRazorpay, true},
		{"Wallet", PaymentMethodWallet, true},
		{"paypal", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizePaymentMethod(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestAwaitingVerification(t *testing.T) {
	assert.True(t, Payment{Method: PaymentMethodRazorpay, Status: PaymentStatusPending}.AwaitingVerification())

	// A settled or failed payment cannot be verified again; a failed one
	// goes back through initiation so its stock is re-reserved first.
	assert.False(t, Payment{Method: PaymentMethodRazorpay, Status: PaymentStatusCompleted}.AwaitingVerification())
	assert.False(t, Payment{Method: PaymentMethodRazorpay, Status: PaymentStatusFailed}.AwaitingVerification())
	assert.False(t, Payment{Method: PaymentMethodCOD, Status: PaymentStatusPending}.AwaitingVerification())
	assert.False(t, Payment{Method: PaymentMethodWallet, Status: PaymentStatusPending}.AwaitingVerification())
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusFailed, OrderStatusReturnRequested,
		OrderStatusReturned,
	} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("Placed"))
	assert.False(t, ValidOrderStatus(""))
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Price: 1500, Quantity: 3}
	assert.Equal(t, 4500.0, item.Subtotal())
}

func TestActiveItems(t *testing.T) {
	order := Order{Items: []OrderItem{
		{ID: 1, Status: ItemStatusProcessing},
		{ID: 2, Status: ItemStatusCancelled},
		{ID: 3, Status: ItemStatusProcessing, Return: Return{Requested: true}},
		{ID: 4, Status: ItemStatusDelivered, Return: Return{Status: ReturnStatusApproved}},
	}}

	active := order.ActiveItems()
	assert.Len(t, active, 1)
	assert.Equal(t, uint(1), active[0].ID)
}

func TestAllItemsCancelled(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Status: ItemStatusCancelled},
		{Status: ItemStatusCancelled},
	}}
	assert.True(t, order.AllItemsCancelled())

	order.Items = append(order.Items, OrderItem{Status: ItemStatusProcessing})
	assert.False(t, order.AllItemsCancelled())

	empty := Order{}
	assert.False(t, empty.AllItemsCancelled())
}
