package refresh

import (
	"context"
	"time"

	"calview/internal/calendar/dispatch"
	"calview/pkg/kafka"
	"calview/pkg/logger"
)

// Refresher is the slice of the calendar service the poller drives.
type Refresher interface {
	Refresh(ctx context.Context) (dispatch.Snapshot, error)
}

// Poller re-fetches the visible booking window on a fixed interval, and
// immediately when a booking-change event arrives on the broker. Both paths
// funnel into the same merge, so ordering against local mutations is
// handled by the reconciliation buffers, not by the trigger.
type Poller struct {
	svc      Refresher
	interval time.Duration
	log      *logger.Logger
	kick     chan struct{}
}

func NewPoller(svc Refresher, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{
		svc:      svc,
		interval: interval,
		log:      log,
		kick:     make(chan struct{}, 1),
	}
}

// Run polls until ctx is cancelled. A failed refresh is logged and retried
// on the next tick; the poller never stops on its own.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-p.kick:
		}

		if _, err := p.svc.Refresh(ctx); err != nil {
			p.log.Warn("Scheduled refresh failed", "error", err)
		}
	}
}

// Trigger requests an immediate refresh. Coalesces: if one is already
// pending, the request is dropped.
func (p *Poller) Trigger() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// EventHandler adapts booking-change events from the broker into refresh
// triggers. Events produced by this service are ignored; the local store
// already reflects them.
func (p *Poller) EventHandler() kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if msg.GetSource() == "calendar" {
			return nil
		}

		p.log.Info("Booking change event received, triggering refresh",
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
			"source", msg.GetSource(),
		)
		p.Trigger()
		return nil
	}
}
