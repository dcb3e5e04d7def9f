package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and returns a PDF invoice for the order.
// Invoices are only available once payment has completed.
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid order ID format in invoice request: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items.Product").Preload("Address").Preload("User").
		Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		utils.LogError("Order %d not found for invoice, user %d", orderID, user.ID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	// COD payments complete at delivery, so this also holds COD invoices
	// back until the order is delivered.
	if order.Payment.Status != models.PaymentStatusCompleted {
		utils.LogError("Invoice requested before payment completion for order %d", orderID)
		utils.BadRequest(c, "Invoice is available after payment is completed", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Store info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "42 Clocktower Road, Bengaluru, India")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@chronocraft.in | Phone: +91-98765-43210")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Order Number: "+order.OrderNumber)
	pdf.Cell(60, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(60, 8, "Payment Method: "+order.Payment.Method)
	pdf.Cell(60, 8, "Status: "+order.Status)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, order.User.Name)
	pdf.Ln(6)
	pdf.Cell(100, 8, order.User.Email)
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Shipping Address:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, order.Address.Street)
	pdf.Ln(6)
	pdf.Cell(100, 8, order.Address.City+", "+order.Address.State+" - "+order.Address.Pincode)
	pdf.Ln(10)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, item := range order.Items {
		name := item.Product.Name
		if item.Status == models.ItemStatusCancelled {
			name += " (cancelled)"
		}
		pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Subtotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Summary
	pdf.Ln(4)
	summaryRow := func(label string, amount float64, bold bool) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(120, 8, label, "", 0, "L", false, 0, "")
		if bold {
			pdf.SetFont("Arial", "B", 13)
		} else {
			pdf.SetFont("Arial", "", 12)
		}
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
	}
	summaryRow("Subtotal:", order.Pricing.Subtotal, false)
	summaryRow("Tax (GST 12%):", order.Pricing.Tax, false)
	summaryRow("Shipping:", order.Pricing.ShippingFee, false)
	summaryRow("Discount:", order.Pricing.Discount, false)
	summaryRow("Grand Total:", order.Pricing.FinalAmount, true)

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(100, 8, "Thank you for shopping with "+utils.AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate invoice PDF for order %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	utils.LogInfo("Invoice generated for order %s", order.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", order.OrderNumber))
	c.Data(200, "application/pdf", buf.Bytes())
}
