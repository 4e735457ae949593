// Package notifier delivers promotion alerts to outbound channels. Delivery
// failures are logged by the caller and never retried.
package notifier

import "promotrack/models"

// Alert carries everything a channel needs to render a promotion message.
type Alert struct {
	ProductName     string
	NewPrice        float64
	OldPrice        *float64
	ProductURL      string
	DiscountPercent *int
	PromotionType   models.PromotionType
}

// Notifier is one outbound alert channel.
type Notifier interface {
	SendPriceAlert(alert Alert) error
}

// Multi fans an alert out to every configured channel. One channel failing
// does not stop the others; the first error is returned for logging.
type Multi []Notifier

func (m Multi) SendPriceAlert(alert Alert) error {
	var firstErr error
	for _, n := range m {
		if err := n.SendPriceAlert(alert); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
