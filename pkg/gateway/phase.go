package gateway

import (
	"context"
	"log/slog"
	"time"
)

// Phase is a step of a single gateway call. Every call starts Idle and ends in
// Done or Failed; there is no way back to Dispatched.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseValidating  Phase = "validating"
	PhaseDispatched  Phase = "dispatched"
	PhaseSanitizing  Phase = "sanitizing"
	PhaseRendering   Phase = "rendering"
	PhasePassThrough Phase = "passThrough"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

type PhaseObserver func(operation string, phase Phase)

type callTrace struct {
	ctx       context.Context
	operation string
	phase     Phase
	started   time.Time
	observer  PhaseObserver
}

func (g *Gateway) trace(ctx context.Context, operation string) *callTrace {
	t := &callTrace{
		ctx:       ctx,
		operation: operation,
		started:   time.Now(),
		observer:  g.observer,
	}
	t.enter(PhaseIdle)
	return t
}

func (t *callTrace) enter(phase Phase) {
	if t.terminal() {
		return
	}

	t.phase = phase
	slog.DebugContext(t.ctx, "gateway call", "operation", t.operation, "phase", phase)
	if t.observer != nil {
		t.observer(t.operation, phase)
	}
}

func (t *callTrace) done() {
	t.enter(PhaseDone)
	slog.DebugContext(t.ctx, "gateway call finished", "operation", t.operation, "elapsed", time.Since(t.started))
}

// fail moves the call to Failed and hands back err unchanged.
func (t *callTrace) fail(err error) error {
	t.enter(PhaseFailed)
	slog.DebugContext(t.ctx, "gateway call failed", "operation", t.operation, "error", err)
	return err
}

func (t *callTrace) terminal() bool {
	return t.phase == PhaseDone || t.phase == PhaseFailed
}
