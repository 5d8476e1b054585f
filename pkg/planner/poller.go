package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
)

// DefaultInterval is the fixed poll period. The upstream deployments ran at
// 7.5s and 20s; this is a configuration constant, not a protocol guarantee.
const DefaultInterval = 7500 * time.Millisecond

// Poller follows one plan run until the service reports a terminal state.
//
// Exported fields are set before Start and must not change afterwards. The
// loop issues one immediate fetch, then fetches at a fixed interval. There is
// no backoff and no attempt cap: transient failures and 404s skip the tick
// and the interval implicitly retries. Stop is idempotent and guaranteed on
// every exit path (terminal state, caller Stop, context cancellation).
type Poller struct {
	Client *Client

	// Interval is the fixed poll period. Zero means DefaultInterval.
	Interval time.Duration

	// Logger records skipped ticks. Nil means no-op.
	Logger *slog.Logger

	// OnUpdate is invoked with every successfully fetched state, which
	// replaces the previous one wholesale. Optional.
	OnUpdate func(*domain.PlanState)

	// OnTerminal is invoked exactly once, with the terminal state. Optional.
	OnTerminal func(*domain.PlanState)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewPoller creates a poller with defaults for the given client.
func NewPoller(client *Client) *Poller {
	return &Poller{
		Client:   client,
		Interval: DefaultInterval,
		Logger:   logging.NewNop(),
	}
}

// Start begins polling the given plan run on a background goroutine. It
// returns an error if the poller is already running.
func (p *Poller) Start(ctx context.Context, planRunID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("poller already running for a plan")
	}

	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(pollCtx, planRunID)
	return nil
}

// Stop cancels the poll loop. Safe to call multiple times and from any
// goroutine; stopping an already-stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done returns a channel closed when the poll loop has fully exited.
// Returns nil if the poller was never started.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Poller) run(ctx context.Context, planRunID string) {
	defer func() {
		p.mu.Lock()
		p.running = false
		close(p.done)
		p.mu.Unlock()
	}()
	// The loop owns its cancellation; releasing it here covers the terminal
	// path as well as caller Stop and parent-context teardown.
	defer p.Stop()

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Immediate first fetch, before any interval elapses.
	if p.poll(ctx, planRunID) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.poll(ctx, planRunID) {
				return
			}
		}
	}
}

// poll performs one status fetch. It returns true when polling should end.
func (p *Poller) poll(ctx context.Context, planRunID string) bool {
	state, err := p.Client.FetchState(ctx, planRunID)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, domain.ErrPlanNotFound):
		// The service may not have persisted the run yet; keep polling.
		p.logger().Warn("Plan not visible yet, keeping polling", "plan_run_id", planRunID)
		return false
	case err != nil:
		p.logger().Warn("Poll tick failed, skipping", "plan_run_id", planRunID, "err", err)
		return false
	}

	if p.OnUpdate != nil {
		p.OnUpdate(state)
	}

	if state.State.Terminal() {
		if p.OnTerminal != nil {
			p.OnTerminal(state)
		}
		return true
	}
	return false
}

func (p *Poller) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.NewNop()
}
