package routes

import (
	"net/http"

	"github.com/chronocraft/chronocraft/controllers"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.RateLimitMiddleware(rate.Limit(20), 40))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/" + utils.APIVersion)

	// Public routes
	v1.POST("/register", controllers.Register)
	v1.POST("/login", controllers.Login)
	v1.GET("/products", controllers.ListProducts)
	v1.GET("/products/:id", controllers.GetProductDetails)

	// Authenticated customer routes
	user := v1.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/addresses", controllers.ListAddresses)
		user.POST("/addresses", controllers.AddAddress)
		user.PUT("/addresses/:id", controllers.UpdateAddress)
		user.DELETE("/addresses/:id", controllers.DeleteAddress)

		user.GET("/cart", controllers.GetCart)
		user.POST("/cart", controllers.AddToCart)
		user.PUT("/cart/:id", controllers.UpdateCartItem)
		user.DELETE("/cart/:id", controllers.RemoveCartItem)

		user.GET("/coupons", controllers.GetAvailableCoupons)
		user.POST("/coupons/apply", controllers.ApplyCoupon)
		user.DELETE("/coupons/remove", controllers.RemoveCoupon)

		user.GET("/checkout", controllers.GetCheckoutSummary)
		user.POST("/checkout", controllers.PlaceOrder)
		user.POST("/checkout/payment/initiate", controllers.InitiatePayment)
		user.POST("/checkout/payment/verify", controllers.VerifyPayment)

		user.GET("/orders", controllers.ListOrders)
		user.GET("/orders/:id", controllers.GetOrderDetails)
		user.POST("/orders/:id/cancel", controllers.CancelOrder)
		user.POST("/orders/:id/items/:itemId/cancel", controllers.CancelOrderItem)
		user.POST("/orders/:id/return", controllers.ReturnOrder)
		user.POST("/orders/:id/items/:itemId/return", controllers.ReturnOrderItem)
		user.GET("/orders/:id/invoice", controllers.DownloadInvoice)

		user.GET("/wallet", controllers.GetWallet)
		user.POST("/wallet/add", controllers.AddMoney)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.POST("/login", controllers.AdminLogin)
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("/orders", controllers.AdminListOrders)
		admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
		admin.GET("/returns", controllers.ListReturnRequests)
		admin.POST("/returns/:id/verify", controllers.VerifyReturnRequest)

		admin.POST("/coupons", controllers.CreateCoupon)
		admin.GET("/coupons", controllers.ListCoupons)
		admin.PUT("/coupons/:id", controllers.UpdateCoupon)
		admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

		admin.POST("/offers", controllers.CreateOffer)
		admin.GET("/offers", controllers.ListOffers)
		admin.PATCH("/offers/:id/deactivate", controllers.DeactivateOffer)

		admin.GET("/sales-report", controllers.GetSalesReport)
		admin.GET("/sales-report/export", controllers.ExportSalesReport)
	}

	return router
}
