package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"patrol-verifier/internal/features/reports/domain"
)

// reportEvent is the payload posted for every finalized report.
type reportEvent struct {
	Event    string          `json:"event"`
	Category domain.Category `json:"category"`
	Report   domain.Report   `json:"report"`
	SentAt   time.Time       `json:"sent_at"`
}

// WebhookNotifier implements ports.ReportNotifier by posting JSON to a URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: client,
	}
}

// ReportFinalized posts the report to the webhook.
func (n *WebhookNotifier) ReportFinalized(ctx context.Context, report domain.Report) error {
	body, err := json.Marshal(reportEvent{
		Event:    "report.finalized",
		Category: report.Status.Category(),
		Report:   report,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

