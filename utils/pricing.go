package utils

import (
	"math"

	"github.com/chronocraft/chronocraft/models"
)

// EffectiveUnitPrice computes what one unit of a variant actually costs.
// The manual sale price and the best active offer are never compounded:
// the customer gets whichever is lower. The offer price is rounded to the
// nearest rupee, matching how offers are advertised.
func EffectiveUnitPrice(variant models.Variant, offerPercent float64) float64 {
	manual := variant.EffectiveSalePrice()
	if offerPercent <= 0 {
		return manual
	}
	offerPrice := math.Round(variant.Price * (1 - offerPercent/100))
	return math.Min(manual, offerPrice)
}

// OrderTotals derives tax and final amount from a subtotal and discount.
// finalAmount = subtotal + 12% GST + shipping - discount.
func OrderTotals(subtotal, discount float64) models.Pricing {
	tax := RoundMoney(subtotal * GSTRate)
	return models.Pricing{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: ShippingFee,
		Discount:    discount,
		FinalAmount: RoundMoney(subtotal + tax + ShippingFee - discount),
	}
}

// RepriceAfterItemRemoval recomputes an order's pricing sub-record after a
// line has been cancelled. The coupon discount already stored on the order
// is reduced by the removed line's prorated share; the shipping fee stays.
func RepriceAfterItemRemoval(p models.Pricing, itemSubtotal, itemDiscountShare float64) models.Pricing {
	newSubtotal := RoundMoney(p.Subtotal - itemSubtotal)
	newDiscount := RoundMoney(p.Discount - itemDiscountShare)
	if newSubtotal < 0 {
		newSubtotal = 0
	}
	if newDiscount < 0 {
		newDiscount = 0
	}
	out := OrderTotals(newSubtotal, newDiscount)
	out.ShippingFee = p.ShippingFee
	out.FinalAmount = RoundMoney(newSubtotal + out.Tax + p.ShippingFee - newDiscount)
	return out
}

// ItemRefund computes the wallet refund owed for one cancelled line of a
// paid order. The line takes its proportional share of the order's tax and
// coupon discount; the result is floored at zero. The shipping fee is only
// refunded when the whole order is cancelled.
func ItemRefund(item models.OrderItem, orderSubtotal, orderTax, couponDiscount float64) float64 {
	if orderSubtotal <= 0 {
		return 0
	}
	proportion := item.Subtotal() / orderSubtotal
	refund := item.Subtotal() + orderTax*proportion - couponDiscount*proportion
	if refund < 0 {
		return 0
	}
	return RoundMoney(refund)
}

// ItemDiscountShare is the slice of the order's coupon discount carried by
// one line, proportional to its subtotal.
func ItemDiscountShare(item models.OrderItem, orderSubtotal, couponDiscount float64) float64 {
	if orderSubtotal <= 0 || couponDiscount <= 0 {
		return 0
	}
	return RoundMoney(couponDiscount * item.Subtotal() / orderSubtotal)
}

// CODAvailable reports whether an order of this final amount may be paid
// cash on delivery.
func CODAvailable(finalAmount float64) bool {
	return finalAmount <= CODLimit
}

// RoundMoney rounds to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
