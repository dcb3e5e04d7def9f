package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chronocraft/chronocraft/models"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration read from the environment.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfig() EmailConfig {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends a single HTML email.
func SendEmail(to, subject, body string) error {
	config := emailConfig()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendOrderConfirmation emails a placed-order summary. Called after the
// placement transaction commits; a send failure is logged, never surfaced
// to the customer.
func SendOrderConfirmation(to string, order models.Order) error {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%d</td><td>₹%.2f</td></tr>",
			item.Product.Name, item.Quantity, item.Subtotal()))
	}

	body := fmt.Sprintf(`
		<h2>Thank you for your order!</h2>
		<p>Your order <strong>%s</strong> has been placed successfully.</p>
		<table border="1" cellpadding="6" cellspacing="0">
			<tr><th>Item</th><th>Qty</th><th>Amount</th></tr>
			%s
		</table>
		<p>Subtotal: ₹%.2f<br>
		Tax: ₹%.2f<br>
		Shipping: ₹%.2f<br>
		Discount: ₹%.2f<br>
		<strong>Total: ₹%.2f</strong></p>
		<p>Payment method: %s</p>
		<p>Expected delivery: %s</p>
	`, order.OrderNumber, rows.String(),
		order.Pricing.Subtotal, order.Pricing.Tax, order.Pricing.ShippingFee,
		order.Pricing.Discount, order.Pricing.FinalAmount,
		order.Payment.Method,
		order.ExpectedDeliveryDate.Format("02 Jan 2006"))

	return SendEmail(to, fmt.Sprintf("Order Confirmation - %s", order.OrderNumber), body)
}
