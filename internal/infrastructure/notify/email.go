package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/bodega-ledger/internal/application/alerting"
	"github.com/jhoicas/bodega-ledger/internal/application/dto"
	"github.com/jhoicas/bodega-ledger/pkg/config"
)

var _ alerting.Notifier = (*EmailNotifier)(nil)

// mailSender es la parte de *gomail.Dialer que se usa; permite sustituirla en tests.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier envía la alerta de stock bajo por SMTP.
type EmailNotifier struct {
	sender mailSender
	from   string
	to     []string
	now    func() time.Time
}

// NewEmailNotifier construye el notificador desde la configuración de alertas.
// Devuelve nil si no hay SMTP_HOST o destinatarios.
func NewEmailNotifier(cfg config.AlertsConfig) *EmailNotifier {
	if cfg.SMTPHost == "" || len(cfg.To) == 0 {
		return nil
	}
	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}
	return &EmailNotifier{
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   from,
		to:     cfg.To,
		now:    time.Now,
	}
}

// NotifyLowStock envía un único correo con todos los registros.
func (n *EmailNotifier) NotifyLowStock(ctx context.Context, items []dto.LowStockItemDTO) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.from == "" {
		return errors.New("email: remitente vacío (ALERT_FROM o SMTP_USER)")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", lowStockSubject(items))
	m.SetBody("text/plain", renderLowStockText(items, n.now()))
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("email: enviar alerta: %w", err)
	}
	return nil
}
