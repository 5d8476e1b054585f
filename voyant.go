package voyant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/planner"
)

// Version is the current release of Voyant.
const Version = "0.1.0"

// Step indexes the five wizard views in order.
type Step int

const (
	StepRoute Step = iota
	StepDates
	StepPreferences
	StepProcessing
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepRoute:
		return "Route"
	case StepDates:
		return "Dates"
	case StepPreferences:
		return "Preferences"
	case StepProcessing:
		return "Processing"
	case StepResults:
		return "Results"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

var (
	// ErrStepIncomplete is returned by Advance when required fields for the
	// current step are empty.
	ErrStepIncomplete = errors.New("required fields for this step are empty")

	// ErrSubmitRequired is returned by Advance at the preferences step:
	// processing and results are reachable only through submission and the
	// terminal poll state, never by manual navigation.
	ErrSubmitRequired = errors.New("submit the search to continue")

	// ErrNotAtPreferences is returned by Submit outside the preferences step.
	ErrNotAtPreferences = errors.New("submission is only available at the preferences step")
)

// Planner starts a plan run on the remote service. *planner.Client satisfies
// it; tests substitute fakes.
type Planner interface {
	StartPlan(ctx context.Context, form domain.TravelForm) (*domain.PlanState, error)
}

// StartPollFunc begins following a plan run, delivering every fetched state
// to onUpdate and the terminal state to onTerminal, and returns a stop
// function. Stop must be idempotent.
type StartPollFunc func(ctx context.Context, planRunID string, onUpdate, onTerminal func(*domain.PlanState)) (stop func(), err error)

// Wizard is the linear five-step state controller. It owns the travel form
// being assembled across steps and the plan-run snapshot reported by the
// service.
//
// Poll callbacks arrive on a background goroutine; all state is guarded by a
// single mutex so callers may drive the wizard from any goroutine.
type Wizard struct {
	mu        sync.Mutex
	step      Step
	form      domain.TravelForm
	plan      *domain.PlanState
	submitErr string
	stopPoll  func()
	notify    func()

	planner      Planner
	startPoll    StartPollFunc
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger configures the wizard's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		w.logger = logger
	}
}

// WithStartPoll substitutes the poll strategy. Tests use this to script
// plan-run progress without a live service.
func WithStartPoll(fn StartPollFunc) Option {
	return func(w *Wizard) {
		w.startPoll = fn
	}
}

// WithPollInterval overrides the fixed poll period used by NewWithClient.
func WithPollInterval(d time.Duration) Option {
	return func(w *Wizard) {
		w.pollInterval = d
	}
}

// New creates a wizard at the route step with the canonical default form.
// Without a StartPollFunc the wizard submits but never observes progress;
// use NewWithClient (or WithStartPoll) for a functioning pipeline.
func New(p Planner, opts ...Option) *Wizard {
	w := &Wizard{
		form:    domain.DefaultForm(),
		planner: p,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewWithClient wires a wizard to a live planning-service client: the client
// submits the form and a planner.Poller follows the run.
func NewWithClient(client *planner.Client, opts ...Option) *Wizard {
	w := New(client, opts...)
	if w.startPoll == nil {
		w.startPoll = func(ctx context.Context, planRunID string, onUpdate, onTerminal func(*domain.PlanState)) (func(), error) {
			p := planner.NewPoller(client)
			if w.pollInterval > 0 {
				p.Interval = w.pollInterval
			}
			p.Logger = w.logger
			p.OnUpdate = onUpdate
			p.OnTerminal = onTerminal
			if err := p.Start(ctx, planRunID); err != nil {
				return nil, err
			}
			return p.Stop, nil
		}
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form returns a copy of the form being assembled.
func (w *Wizard) Form() domain.TravelForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Plan returns the latest plan-run snapshot, or nil before submission.
// Callers must treat it as read-only.
func (w *Wizard) Plan() *domain.PlanState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.plan
}

// SubmitError returns the visible submission failure, empty when none.
func (w *Wizard) SubmitError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitErr
}

// OnChange registers a callback invoked after every state change, including
// those driven by poll updates. Frontends use it to redraw.
func (w *Wizard) OnChange(fn func()) {
	w.mu.Lock()
	w.notify = fn
	w.mu.Unlock()
}

// SetOrigin records the departure city.
func (w *Wizard) SetOrigin(origin string) {
	w.mu.Lock()
	w.form.Origin = origin
	w.mu.Unlock()
	w.emit()
}

// SetDestination records the arrival city.
func (w *Wizard) SetDestination(destination string) {
	w.mu.Lock()
	w.form.Destination = destination
	w.mu.Unlock()
	w.emit()
}

// SetDates records both travel dates. They are free text; the planning
// service interprets them.
func (w *Wizard) SetDates(departure, ret string) {
	w.mu.Lock()
	w.form.DepartureDate = departure
	w.form.ReturnDate = ret
	w.mu.Unlock()
	w.emit()
}

// SetCabinClass records the cabin class, rejecting unknown values.
func (w *Wizard) SetCabinClass(c domain.CabinClass) error {
	if !c.Valid() {
		return fmt.Errorf("unknown cabin class %q", c)
	}
	w.mu.Lock()
	w.form.CabinClass = c
	w.mu.Unlock()
	w.emit()
	return nil
}

// SetPassengers records the passenger count within the service's bounds.
func (w *Wizard) SetPassengers(n int) error {
	if n < domain.MinPassengers || n > domain.MaxPassengers {
		return fmt.Errorf("passengers must be between %d and %d", domain.MinPassengers, domain.MaxPassengers)
	}
	w.mu.Lock()
	w.form.Passengers = n
	w.mu.Unlock()
	w.emit()
	return nil
}

// Advance moves forward one step, gated on the current step's required
// fields: origin and destination for the route step, both dates for the
// dates step. Past the preferences step manual navigation is refused;
// Submit and the terminal poll state are the only ways forward.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepRoute:
		if !w.form.HasRoute() {
			return fmt.Errorf("%w: origin and destination", ErrStepIncomplete)
		}
	case StepDates:
		if !w.form.HasDates() {
			return fmt.Errorf("%w: departure and return dates", ErrStepIncomplete)
		}
	case StepPreferences, StepProcessing:
		return ErrSubmitRequired
	case StepResults:
		return nil // clamped at the last step
	}

	w.step++
	return nil
}

// Retreat moves back one step unconditionally, clamped at the route step.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	if w.step > StepRoute {
		w.step--
	}
	w.mu.Unlock()
	w.emit()
}

// Submit sends the form to the planning service. On success the wizard moves
// to the processing step and starts following the run; completion or failure
// of the run forces the results step regardless of manual navigation.
//
// A rejected submission is surfaced: the error is returned and kept visible
// via SubmitError, and the wizard stays at the preferences step.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepPreferences {
		w.mu.Unlock()
		return ErrNotAtPreferences
	}
	form := w.form
	w.mu.Unlock()

	if err := form.Validate(); err != nil {
		w.setSubmitError(err)
		return err
	}

	state, err := w.planner.StartPlan(ctx, form)
	if err != nil {
		w.logger.Error("Plan submission failed", "err", err)
		w.setSubmitError(err)
		return err
	}

	w.mu.Lock()
	w.plan = state
	w.step = StepProcessing
	w.submitErr = ""
	w.mu.Unlock()
	w.emit()

	if w.startPoll == nil {
		return nil
	}
	stop, err := w.startPoll(ctx, state.PlanRunID, w.applyUpdate, w.applyTerminal)
	if err != nil {
		w.logger.Error("Failed to start polling", "plan_run_id", state.PlanRunID, "err", err)
		w.mu.Lock()
		w.step = StepPreferences
		w.mu.Unlock()
		w.setSubmitError(err)
		return err
	}

	w.mu.Lock()
	w.stopPoll = stop
	w.mu.Unlock()
	return nil
}

// Reset returns to the route step with the canonical default form, clears
// the plan state, and cancels any running poll. Safe to call at any time.
func (w *Wizard) Reset() {
	w.mu.Lock()
	stop := w.stopPoll
	w.stopPoll = nil
	w.step = StepRoute
	w.form = domain.DefaultForm()
	w.plan = nil
	w.submitErr = ""
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
	w.emit()
}

// Close cancels any running poll. It is the teardown half of Reset and is
// idempotent; frontends defer it to avoid leaking the repeating fetch.
func (w *Wizard) Close() {
	w.mu.Lock()
	stop := w.stopPoll
	w.stopPoll = nil
	w.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// applyUpdate replaces the stored plan state wholesale with what the service
// returned.
func (w *Wizard) applyUpdate(state *domain.PlanState) {
	w.mu.Lock()
	w.plan = state
	w.mu.Unlock()
	w.emit()
}

// applyTerminal records the terminal snapshot and forces the results step.
func (w *Wizard) applyTerminal(state *domain.PlanState) {
	w.mu.Lock()
	w.plan = state
	w.step = StepResults
	w.mu.Unlock()
	w.emit()
}

func (w *Wizard) setSubmitError(err error) {
	w.mu.Lock()
	w.submitErr = err.Error()
	w.mu.Unlock()
	w.emit()
}

func (w *Wizard) emit() {
	w.mu.Lock()
	notify := w.notify
	w.mu.Unlock()
	if notify != nil {
		notify()
	}
}
