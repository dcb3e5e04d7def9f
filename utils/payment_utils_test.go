package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func razorpaySign(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyRazorpaySignature(t *testing.T) {
	sig := razorpaySign("order_abc", "pay_xyz", "secret")
	assert.True(t, VerifyRazorpaySignature("order_abc", "pay_xyz", sig, "secret"))
}

func TestVerifyRazorpaySignatureRejectsTampering(t *testing.T) {
	sig := razorpaySign("order_abc", "pay_xyz", "secret")

	assert.False(t, VerifyRazorpaySignature("order_abc", "pay_other", sig, "secret"))
	assert.False(t, VerifyRazorpaySignature("order_abc", "pay_xyz", sig, "wrong"))
	assert.False(t, VerifyRazorpaySignature("order_abc", "pay_xyz", "deadbeef", "secret"))
}
