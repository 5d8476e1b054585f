// Package service implements the development planning service: an executor
// that walks a plan run through its search steps and records every
// transition in a PlanStore, exposing the same wire states the production
// planner reports.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// Step descriptions mirror the plan the service executes for every search.
var planSteps = []struct {
	outputName  string
	description string
}{
	{"$departure_flight", "Search departure flights"},
	{"$return_flight", "Search return flights"},
	{"$accommodation", "Search accommodation"},
	{"$final_itinerary", "Assemble itinerary"},
}

// Executor runs travel plans asynchronously. StartPlan returns immediately
// with a PREPARING snapshot; a background goroutine advances the run step by
// step until it completes or fails.
type Executor struct {
	store     ports.PlanStore
	provider  Provider
	stepDelay time.Duration
	logger    *slog.Logger
	notify    func(*domain.PlanState)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithStepDelay sets the pause between plan steps. The default keeps runs
// slow enough for a polling client to observe intermediate states.
func WithStepDelay(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.stepDelay = d
	}
}

// WithLogger configures the executor's logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithNotify registers a callback invoked after every persisted transition.
// The HTTP adapter uses it to push state over SSE.
func WithNotify(fn func(*domain.PlanState)) ExecutorOption {
	return func(e *Executor) {
		e.notify = fn
	}
}

// NewExecutor creates an executor backed by the given store and provider.
func NewExecutor(store ports.PlanStore, provider Provider, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:     store,
		provider:  provider,
		stepDelay: 2 * time.Second,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartPlan registers a new plan run and kicks off its execution. The
// returned snapshot is the PREPARING state the caller polls against.
func (e *Executor) StartPlan(ctx context.Context, form domain.TravelForm) (*domain.PlanState, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	state := &domain.PlanState{
		PlanRunID:     uuid.NewString(),
		State:         domain.RunPreparing,
		Outputs:       map[string]any{},
		StatusMessage: "Preparing your travel plan...",
	}
	if err := e.save(ctx, state); err != nil {
		return nil, err
	}

	e.logger.Info("Plan run started", "plan_run_id", state.PlanRunID,
		"origin", form.Origin, "destination", form.Destination)

	// The run outlives the start request.
	go e.execute(context.WithoutCancel(ctx), state.PlanRunID, form)

	return state, nil
}

// GetState returns the latest snapshot for a plan run.
func (e *Executor) GetState(ctx context.Context, planRunID string) (*domain.PlanState, error) {
	return e.store.Load(ctx, planRunID)
}

func (e *Executor) execute(ctx context.Context, planRunID string, form domain.TravelForm) {
	data, summary, err := e.provider.Search(ctx, form)
	if err != nil {
		e.fail(ctx, planRunID, err)
		return
	}

	stepOutputs := map[string]any{}
	for i, step := range planSteps {
		e.sleep(ctx)

		value, stepSummary := stepResult(step.outputName, data, summary)
		stepOutputs[fmt.Sprintf("step_%d", i)] = map[string]any{
			"output_name": step.outputName,
			"value":       value,
			"summary":     stepSummary,
			"step_index":  i,
		}

		state := &domain.PlanState{
			PlanRunID:        planRunID,
			State:            domain.RunInProgress,
			CurrentStepIndex: i,
			Outputs:          map[string]any{"step_outputs": cloneMap(stepOutputs)},
			StatusMessage:    fmt.Sprintf("Processing step %d", i+1),
		}
		if err := e.save(ctx, state); err != nil {
			e.logger.Error("Failed to persist step state", "plan_run_id", planRunID, "err", err)
			return
		}
		e.logger.Debug("Plan step recorded", "plan_run_id", planRunID,
			"step", i, "description", step.description)
	}

	e.sleep(ctx)
	e.complete(ctx, planRunID, len(planSteps)-1, stepOutputs, data, summary)
}

// complete writes the terminal COMPLETE snapshot. The final output is a
// JSON-encoded string carrying the itinerary plus a summary field, matching
// what the production planner's completion hook emits.
func (e *Executor) complete(ctx context.Context, planRunID string, lastStep int, stepOutputs map[string]any, data *domain.TravelData, summary string) {
	payload := map[string]any{
		"departureFlight": data.DepartureFlight,
		"returnFlight":    data.ReturnFlight,
		"accommodation":   data.Accommodation,
		"summary":         summary,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		e.fail(ctx, planRunID, fmt.Errorf("failed to encode final output: %w", err))
		return
	}

	state := &domain.PlanState{
		PlanRunID:        planRunID,
		State:            domain.RunComplete,
		CurrentStepIndex: lastStep,
		Outputs:          map[string]any{"step_outputs": stepOutputs},
		FinalOutput:      string(encoded),
		StatusMessage:    "Plan completed successfully",
	}
	if err := e.save(ctx, state); err != nil {
		e.logger.Error("Failed to persist terminal state", "plan_run_id", planRunID, "err", err)
		return
	}
	e.logger.Info("Plan run completed", "plan_run_id", planRunID)
}

func (e *Executor) fail(ctx context.Context, planRunID string, cause error) {
	state := &domain.PlanState{
		PlanRunID:     planRunID,
		State:         domain.RunFailed,
		Outputs:       map[string]any{},
		Error:         cause.Error(),
		StatusMessage: "Plan failed: " + cause.Error(),
	}
	if err := e.save(ctx, state); err != nil {
		e.logger.Error("Failed to persist terminal state", "plan_run_id", planRunID, "err", err)
		return
	}
	e.logger.Warn("Plan run failed", "plan_run_id", planRunID, "err", cause)
}

func (e *Executor) save(ctx context.Context, state *domain.PlanState) error {
	if err := e.store.Save(ctx, state.PlanRunID, state); err != nil {
		return err
	}
	if e.notify != nil {
		e.notify(state)
	}
	return nil
}

func (e *Executor) sleep(ctx context.Context) {
	if e.stepDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(e.stepDelay):
	}
}

// stepResult derives one step's wire output from the full search result.
// Values are JSON-encoded strings, as the production planner serializes
// structured step outputs.
func stepResult(outputName string, data *domain.TravelData, summary string) (string, string) {
	var (
		payload any
		text    string
	)
	switch outputName {
	case "$departure_flight":
		payload = data.DepartureFlight
		if data.DepartureFlight != nil {
			text = fmt.Sprintf("Found departure flight with %s for $%.0f", data.DepartureFlight.Airline, data.DepartureFlight.Price)
		}
	case "$return_flight":
		payload = data.ReturnFlight
		if data.ReturnFlight != nil {
			text = fmt.Sprintf("Found return flight with %s for $%.0f", data.ReturnFlight.Airline, data.ReturnFlight.Price)
		}
	case "$accommodation":
		payload = data.Accommodation
		if data.Accommodation != nil {
			text = fmt.Sprintf("Found stay at %s for $%.0f", data.Accommodation.HotelName, data.Accommodation.Price)
		}
	default:
		payload = data
		text = summary
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "null", text
	}
	return string(encoded), text
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
