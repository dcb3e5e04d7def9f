package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyRazorpaySignature checks the gateway HMAC for an order/payment pair.
// The signature is HMAC-SHA256 over "<razorpay_order_id>|<razorpay_payment_id>"
// keyed with the API secret; comparison is constant time.
func VerifyRazorpaySignature(razorpayOrderID, razorpayPaymentID, signature, secret string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
