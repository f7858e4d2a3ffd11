// Package notify delivers notifications to external channels. In-app
// notifications are stored separately; this covers the push to email/chat
// bridges via an outbound webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Provider sends a notification to an external channel.
type Provider interface {
	Send(ctx context.Context, recipientEmail, subject, body string) error
}

// WebhookProvider posts notification payloads to a configured webhook URL
// (an email bridge or chat integration endpoint).
type WebhookProvider struct {
	URL    string
	client *http.Client
}

func NewWebhookProvider(url string) *WebhookProvider {
	return &WebhookProvider{
		URL: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *WebhookProvider) Send(ctx context.Context, recipientEmail, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"recipient": recipientEmail,
		"subject":   subject,
		"body":      body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// MockProvider logs instead of sending. Used when no webhook is configured
// and in tests.
type MockProvider struct {
	Sent []string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Send(_ context.Context, recipientEmail, subject, _ string) error {
	p.Sent = append(p.Sent, fmt.Sprintf("%s: %s", recipientEmail, subject))
	log.Printf("[Notify] (mock) %s -> %s", subject, recipientEmail)
	return nil
}

// FromConfig picks the webhook provider when a URL is configured, otherwise
// the mock.
func FromConfig(webhookURL string) Provider {
	if webhookURL == "" {
		log.Printf("[Notify] No webhook configured, using mock provider")
		return NewMockProvider()
	}
	log.Printf("[Notify] Using webhook provider")
	return NewWebhookProvider(webhookURL)
}
