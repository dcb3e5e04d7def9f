package utils

// Application constants
const (
	// Application name
	AppName = "ChronoCraft"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// GST applied on the order subtotal
	GSTRate = 0.12

	// Flat shipping fee per order; never prorated per line item
	ShippingFee = 100.0

	// COD is rejected for orders above this final amount
	CODLimit = 5000.0

	// Expected delivery, days from order placement
	DeliveryDays = 5

	// Order number prefix; full format is ORD + YYYYMMDD + 4-digit sequence
	OrderNumberPrefix = "ORD"

	// Percentage coupons may not discount more than this
	MaxCouponPercent = 90.0

	// Offer cache TTL in seconds
	OfferCacheTTLSeconds = 60

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8
)

// Error messages
const (
	ErrUnauthorized    = "Unauthorized access"
	ErrOrderNotFound   = "Order not found"
	ErrItemNotFound    = "Order item not found"
	ErrWalletNotFound  = "Wallet not found"
	ErrCartEmpty       = "Your cart is empty"
	ErrReasonRequired  = "Reason is required"
	ErrCODLimit        = "Cash on Delivery is not available for orders above ₹5000. Please choose another payment method."
	ErrInvalidPayment  = "Invalid payment method. Must be one of: COD, RAZORPAY, WALLET"
	ErrRecordNotFound  = "Record not found"
	ErrInternalServer  = "Internal server error"
)
