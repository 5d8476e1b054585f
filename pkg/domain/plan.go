package domain

// RunState is the server-driven status of a plan run. The client never
// transitions it; it only reacts to whatever the service reports.
type RunState string

const (
	RunPreparing  RunState = "PREPARING"
	RunInProgress RunState = "IN_PROGRESS"
	RunComplete   RunState = "COMPLETE"
	RunFailed     RunState = "FAILED"

	// RunNotFound appears only in 404 bodies from the service; a poller treats
	// it as "not visible yet", not as a terminal state.
	RunNotFound RunState = "NOT_FOUND"
)

// Terminal reports whether no further transitions will occur.
func (s RunState) Terminal() bool {
	return s == RunComplete || s == RunFailed
}

// PlanState is the remote service's snapshot of one plan run.
//
// FinalOutput is deliberately untyped: historically the service has returned
// it as a JSON-encoded string, as an object wrapping a "value" field, or as
// the object itself. Package result resolves the shape.
type PlanState struct {
	PlanRunID        string         `json:"plan_run_id"`
	State            RunState       `json:"state"`
	CurrentStepIndex int            `json:"current_step_index"`
	Outputs          map[string]any `json:"outputs,omitempty"`
	FinalOutput      any            `json:"final_output,omitempty"`
	Error            string         `json:"error,omitempty"`
	StatusMessage    string         `json:"status_message,omitempty"`
}

// FailureMessage returns the server-supplied error for a FAILED run, or a
// generic fallback when the service did not provide one.
func (p *PlanState) FailureMessage() string {
	if p.Error != "" {
		return p.Error
	}
	return "The planning service could not complete your trip. Please try again."
}
