package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DiscordNotifier posts promotion alerts to a Discord webhook as an embed.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	URL         string         `json:"url"`
	Timestamp   string         `json:"timestamp"`
	Footer      discordFooter  `json:"footer"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

func (d *DiscordNotifier) SendPriceAlert(alert Alert) error {
	fields := []discordField{
		{Name: "New price", Value: fmt.Sprintf("%.2f€", alert.NewPrice), Inline: true},
	}
	if alert.OldPrice != nil {
		reduction := *alert.OldPrice - alert.NewPrice
		percent := 0
		if alert.DiscountPercent != nil {
			percent = *alert.DiscountPercent
		} else if *alert.OldPrice > 0 {
			percent = int(reduction / *alert.OldPrice * 100)
		}
		fields = append(fields,
			discordField{Name: "Old price", Value: fmt.Sprintf("~~%.2f€~~", *alert.OldPrice), Inline: true},
			discordField{Name: "Reduction", Value: fmt.Sprintf("-%.2f€ (-%d%%)", reduction, percent), Inline: true},
		)
	}

	payload := discordPayload{
		Content: "Promotion detected",
		Embeds: []discordEmbed{{
			Title:       fmt.Sprintf("Promotion: %s", alert.PromotionType),
			Description: fmt.Sprintf("**%s**", alert.ProductName),
			Color:       0x00ff00,
			Fields:      fields,
			URL:         alert.ProductURL,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Footer:      discordFooter{Text: "promotrack"},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode discord payload: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}
