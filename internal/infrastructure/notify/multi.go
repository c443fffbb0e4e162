package notify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/dto"
)

var _ alerting.Notifier = (*MultiNotifier)(nil)

// MultiNotifier reparte la alerta a varios canales en paralelo. Un canal que
// falla no cancela a los demás; se devuelve el primer error.
type MultiNotifier struct {
	notifiers []alerting.Notifier
}

// NewMultiNotifier ignora entradas nil. Devuelve nil si no queda ningún canal.
func NewMultiNotifier(notifiers ...alerting.Notifier) alerting.Notifier {
	var active []alerting.Notifier
	for _, n := range notifiers {
		if n == nil || isNilNotifier(n) {
			continue
		}
		active = append(active, n)
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return &MultiNotifier{notifiers: active}
}

func (m *MultiNotifier) NotifyLowStock(ctx context.Context, items []dto.LowStockItemDTO) error {
	var g errgroup.Group
	for _, n := range m.notifiers {
		n := n
		g.Go(func() error { return n.NotifyLowStock(ctx, items) })
	}
	return g.Wait()
}

// isNilNotifier detecta punteros nil envueltos en la interfaz (NewEmailNotifier puede devolver nil).
func isNilNotifier(n alerting.Notifier) bool {
	switch v := n.(type) {
	case *EmailNotifier:
		return v == nil
	case *WebhookNotifier:
		return v == nil
	}
	return false
}
