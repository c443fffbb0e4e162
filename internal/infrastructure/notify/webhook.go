package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/dto"
)

var _ alerting.Notifier = (*WebhookNotifier)(nil)

// WebhookPayload cuerpo JSON enviado al webhook.
type WebhookPayload struct {
	Event       string                `json:"event"`
	Summary     string                `json:"summary"`
	GeneratedAt time.Time             `json:"generated_at"`
	Items       []dto.LowStockItemDTO `json:"items"`
}

// WebhookNotifier publica la alerta como POST JSON (Slack, n8n, etc.).
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	now        func() time.Time
}

// NewWebhookNotifier devuelve nil si url está vacía.
func NewWebhookNotifier(url string) *WebhookNotifier {
	if url == "" {
		return nil
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &WebhookNotifier{httpClient: client, url: url, now: time.Now}
}

func (n *WebhookNotifier) NotifyLowStock(ctx context.Context, items []dto.LowStockItemDTO) error {
	payload := WebhookPayload{
		Event:       "low_stock",
		Summary:     lowStockSubject(items),
		GeneratedAt: n.now().UTC(),
		Items:       items,
	}
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("webhook: enviar alerta: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook: respuesta %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
