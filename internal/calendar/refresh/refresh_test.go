package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"calview/internal/calendar/dispatch"
	"calview/pkg/kafka"
	"calview/pkg/logger"
)

type countingRefresher struct {
	calls atomic.Int64
}

func (c *countingRefresher) Refresh(ctx context.Context) (dispatch.Snapshot, error) {
	c.calls.Add(1)
	return dispatch.Snapshot{}, nil
}

func TestTriggerCausesRefresh(t *testing.T) {
	r := &countingRefresher{}
	p := NewPoller(r, time.Hour, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	p.Trigger()

	deadline := time.After(2 * time.Second)
	for r.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("trigger did not cause a refresh")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestTriggerCoalesces(t *testing.T) {
	p := NewPoller(&countingRefresher{}, time.Hour, logger.Discard())

	// Without a running loop draining the channel, repeated triggers must
	// not block.
	for i := 0; i < 10; i++ {
		p.Trigger()
	}
}

func TestEventHandlerIgnoresOwnEvents(t *testing.T) {
	r := &countingRefresher{}
	p := NewPoller(r, time.Hour, logger.Discard())
	handler := p.EventHandler()

	own, err := kafka.NewMessage("b1", "booking.schedule-changed", "calendar", map[string]any{"id": "b1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := handler(context.Background(), own); err != nil {
		t.Fatalf("handler: %v", err)
	}

	select {
	case <-p.kick:
		t.Error("own event should not trigger a refresh")
	default:
	}

	foreign, err := kafka.NewMessage("b1", "booking.created", "booking-api", map[string]any{"id": "b1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := handler(context.Background(), foreign); err != nil {
		t.Fatalf("handler: %v", err)
	}

	select {
	case <-p.kick:
	default:
		t.Error("foreign event should trigger a refresh")
	}
}
