package notifier

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailNotifier sends promotion alerts through SendGrid.
type EmailNotifier struct {
	apiKey    string
	fromEmail string
	toEmail   string
}

func NewEmailNotifier(apiKey, fromEmail, toEmail string) *EmailNotifier {
	return &EmailNotifier{apiKey: apiKey, fromEmail: fromEmail, toEmail: toEmail}
}

func (e *EmailNotifier) SendPriceAlert(alert Alert) error {
	subject := fmt.Sprintf("Promotion: %s at %.2f€", alert.ProductName, alert.NewPrice)

	text := fmt.Sprintf("%s is now %.2f€.\n", alert.ProductName, alert.NewPrice)
	if alert.OldPrice != nil {
		text += fmt.Sprintf("Previous price: %.2f€.\n", *alert.OldPrice)
	}
	if alert.DiscountPercent != nil {
		text += fmt.Sprintf("Discount: -%d%%.\n", *alert.DiscountPercent)
	}
	text += fmt.Sprintf("\n%s\n", alert.ProductURL)

	from := mail.NewEmail("promotrack", e.fromEmail)
	to := mail.NewEmail("", e.toEmail)
	html := fmt.Sprintf(`<p><strong>%s</strong> is now %.2f&euro;.</p><p><a href="%s">View the product</a></p>`,
		alert.ProductName, alert.NewPrice, alert.ProductURL)
	message := mail.NewSingleEmail(from, subject, to, text, html)

	client := sendgrid.NewSendClient(e.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
