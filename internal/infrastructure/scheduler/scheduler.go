package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-ledger/internal/application/dto"
)

// LowStockProbe es la parte del caso de uso de alertas que ejecuta el cron.
type LowStockProbe interface {
	NotifyLowStock(ctx context.Context, warehouseID string) (*dto.LowStockNotifyResponse, error)
}

// Scheduler ejecuta el sondeo de stock bajo según una expresión cron estándar (5 campos).
type Scheduler struct {
	cron    *cron.Cron
	probe   LowStockProbe
	timeout time.Duration
	log     zerolog.Logger
}

// NewScheduler valida la expresión y registra el trabajo; no arranca hasta Start.
func NewScheduler(spec string, probe LowStockProbe, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		probe:   probe,
		timeout: 2 * time.Minute,
		log:     log,
	}
	if _, err := s.cron.AddFunc(spec, s.runLowStockProbe); err != nil {
		return nil, fmt.Errorf("scheduler: expresión cron %q: %w", spec, err)
	}
	return s, nil
}

// Start arranca el cron en segundo plano.
func (s *Scheduler) Start() {
	s.log.Info().Msg("iniciando scheduler de stock bajo")
	s.cron.Start()
}

// Stop detiene el cron y espera a que termine el trabajo en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info().Msg("deteniendo scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runLowStockProbe() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.probe.NotifyLowStock(ctx, "")
	if err != nil {
		s.log.Error().Err(err).Msg("sondeo de stock bajo fallido")
		return
	}
	s.log.Info().Int("items", len(res.Items)).Bool("notified", res.Notified).Msg("sondeo de stock bajo completado")
}
