package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

type salesSummary struct {
	TotalSales      int     `json:"total_sales"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalItems      int     `json:"total_items"`
	TotalCustomers  int     `json:"total_customers"`
	TotalDiscounts  float64 `json:"total_discounts"`
	TotalRefunds    float64 `json:"total_refunds"`
	NetRevenue      float64 `json:"net_revenue"`
	AverageOrderVal float64 `json:"average_order_value"`
}

func reportPeriod(c *gin.Context) (string, time.Time, time.Time, error) {
	period := c.DefaultQuery("period", "monthly")
	now := time.Now()
	var start time.Time
	switch period {
	case "daily":
		start = now.AddDate(0, 0, -1)
	case "weekly":
		start = now.AddDate(0, 0, -7)
	case "monthly":
		start = now.AddDate(0, -1, 0)
	case "yearly":
		start = now.AddDate(-1, 0, 0)
	case "custom":
		from, err := time.Parse("2006-01-02", c.Query("from"))
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
		}
		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
		}
		return period, from, to.AddDate(0, 0, 1), nil
	default:
		return "", time.Time{}, time.Time{}, fmt.Errorf("period must be daily, weekly, monthly, yearly or custom")
	}
	return period, start, now, nil
}

func loadReportOrders(start, end time.Time) ([]models.Order, salesSummary, error) {
	var orders []models.Order
	err := config.DB.Preload("Items").Preload("User").
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("status NOT IN ?", []string{models.OrderStatusFailed}).
		Order("created_at ASC").Find(&orders).Error
	if err != nil {
		return nil, salesSummary{}, err
	}

	var summary salesSummary
	customers := make(map[uint]bool)
	for _, order := range orders {
		summary.TotalSales++
		summary.TotalRevenue += order.Pricing.FinalAmount
		summary.TotalDiscounts += order.Pricing.Discount
		customers[order.UserID] = true
		for _, item := range order.Items {
			if item.Status != models.ItemStatusCancelled {
				summary.TotalItems += item.Quantity
			}
		}
		if order.Payment.Status == models.PaymentStatusRefunded {
			summary.TotalRefunds += order.Pricing.FinalAmount
		}
	}
	summary.TotalCustomers = len(customers)
	if summary.TotalSales > 0 {
		summary.AverageOrderVal = utils.RoundMoney(summary.TotalRevenue / float64(summary.TotalSales))
	}
	summary.NetRevenue = utils.RoundMoney(summary.TotalRevenue - summary.TotalRefunds)
	summary.TotalRevenue = utils.RoundMoney(summary.TotalRevenue)
	summary.TotalDiscounts = utils.RoundMoney(summary.TotalDiscounts)
	summary.TotalRefunds = utils.RoundMoney(summary.TotalRefunds)
	return orders, summary, nil
}

// GetSalesReport returns sales figures for a period as JSON
func GetSalesReport(c *gin.Context) {
	utils.LogInfo("GetSalesReport called")

	period, start, end, err := reportPeriod(c)
	if err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	orders, summary, err := loadReportOrders(start, end)
	if err != nil {
		utils.LogError("Failed to load report orders: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	utils.LogInfo("Sales report generated: %d orders, period %s", len(orders), period)
	utils.Success(c, "Sales report generated", gin.H{
		"period":  period,
		"from":    start.Format("2006-01-02"),
		"to":      end.Format("2006-01-02"),
		"summary": summary,
		"orders":  orders,
	})
}

// ExportSalesReport writes the sales report for a period as an Excel file
func ExportSalesReport(c *gin.Context) {
	utils.LogInfo("ExportSalesReport called")

	period, start, end, err := reportPeriod(c)
	if err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	orders, summary, err := loadReportOrders(start, end)
	if err != nil {
		utils.LogError("Failed to load report orders: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	row := sheet.AddRow()
	row.AddCell().SetString(strings.ToUpper(utils.AppName) + " - Sales Report")
	row = sheet.AddRow()
	row.AddCell().SetString("42 Clocktower Road, Bengaluru, India")
	row = sheet.AddRow()
	row.AddCell().SetString("Email: support@chronocraft.in")
	row = sheet.AddRow()
	row.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " +
		start.Format("2006-01-02") + " to " + end.Format("2006-01-02"))
	sheet.AddRow()

	headers := []string{"Order Number", "Customer", "Date", "Items", "Subtotal", "Tax", "Discount", "Final Amount", "Payment Mode", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.OrderNumber)
		row.AddCell().SetString(order.User.Name)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(len(order.Items))
		row.AddCell().SetFloat(order.Pricing.Subtotal)
		row.AddCell().SetFloat(order.Pricing.Tax)
		row.AddCell().SetFloat(order.Pricing.Discount)
		row.AddCell().SetFloat(order.Pricing.FinalAmount)
		row.AddCell().SetString(order.Payment.Method)
		row.AddCell().SetString(order.Status)
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Sales", fmt.Sprintf("%d", summary.TotalSales)},
		{"Total Revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)},
		{"Total Items", fmt.Sprintf("%d", summary.TotalItems)},
		{"Total Customers", fmt.Sprintf("%d", summary.TotalCustomers)},
		{"Total Discounts", fmt.Sprintf("%.2f", summary.TotalDiscounts)},
		{"Total Refunds", fmt.Sprintf("%.2f", summary.TotalRefunds)},
		{"Net Revenue", fmt.Sprintf("%.2f", summary.NetRevenue)},
		{"Avg. Order Value", fmt.Sprintf("%.2f", summary.AverageOrderVal)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
	utils.LogInfo("Sales report exported for period %s", period)
}
