package activitylog

import (
	"context"
	"errors"
	"sync"

	"workspace-access/internal/platform/logger"
	"workspace-access/internal/ports/workspace"
)

// LogSink escribe la actividad como líneas de log estructurado.
// Es el destino por defecto cuando no hay broker configurado.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSink{log: log.With(map[string]any{"component": "activity"})}
}

func (s *LogSink) Append(ctx context.Context, ev workspace.ActivityEvent) error {
	fields := map[string]any{
		"organization_id": ev.OrganizationID,
		"actor_id":        ev.ActorID,
		"action":          ev.Action,
		"occurred_at":     ev.OccurredAt,
	}
	if ev.ResourceType != "" {
		fields["resource_type"] = ev.ResourceType
		fields["resource_id"] = ev.ResourceID
	}
	if len(ev.Details) > 0 {
		fields["details"] = ev.Details
	}
	logger.FromContext(ctx, s.log).Info("activity", fields)
	return nil
}

// Fanout entrega el evento a todos los destinos; un destino caído no frena a los demás.
type Fanout []workspace.ActivityLog

func (f Fanout) Append(ctx context.Context, ev workspace.ActivityEvent) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Append(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder guarda los eventos en memoria (dev y tests).
type Recorder struct {
	mu     sync.Mutex
	events []workspace.ActivityEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Append(ctx context.Context, ev workspace.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []workspace.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]workspace.ActivityEvent(nil), r.events...)
}
