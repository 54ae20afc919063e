package worker

import (
	"context"
	"time"

	"workspace-access/internal/domain/access"
	"workspace-access/internal/platform/logger"
)

// ExpirySweeper lo implementa *access.Service.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (access.CleanupResult, error)
}

// Sweeper corre SweepExpired cada interval hasta que ctx se cancela.
type Sweeper struct {
	svc      ExpirySweeper
	interval time.Duration
	log      logger.Logger
}

func NewSweeper(svc ExpirySweeper, interval time.Duration, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &Sweeper{
		svc:      svc,
		interval: interval,
		log:      log.With(map[string]any{"component": "expiry_sweeper"}),
	}
}

// Run bloquea. Con interval <= 0 vuelve enseguida (barrido deshabilitado).
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("expiry sweeper disabled", nil)
		return
	}

	s.log.Info("expiry sweeper started", map[string]any{"interval": s.interval.String()})
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweeper stopped", nil)
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	res, err := s.svc.SweepExpired(ctx)
	if err != nil {
		s.log.Error("expiry sweep failed", map[string]any{"error": err.Error()})
		return
	}
	s.log.Debug("expiry sweep done", map[string]any{"deactivated": res.Deactivated})
}
