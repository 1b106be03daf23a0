// File: internal/workflow/types.go

// Package workflow sequences the scripted steps that drive the target
// application from an idle window to an accepted result.
package workflow

import (
	"time"
)

// State identifies a position in the workflow state machine. States advance
// strictly in order; a failure in any state moves to StateFailed and ends
// the run.
type State string

const (
	StateIdle               State = "Idle"
	StateFocusing           State = "Focusing"
	StateOpeningApp         State = "OpeningApp"
	StateOpeningPanel       State = "OpeningPanel"
	StateStartingSession    State = "StartingSession"
	StateAttachingInputs    State = "AttachingInputs"
	StateSubmittingTask     State = "SubmittingTask"
	StateAwaitingCompletion State = "AwaitingCompletion"
	StateFinalizing         State = "Finalizing"
	StateDone               State = "Done"
	StateFailed             State = "Failed"
)

// Reason is a stable failure code reported alongside the failing state.
// Using a closed set keeps run reports machine-comparable across versions.
type Reason string

const (
	ReasonFocusLost        Reason = "focus-lost"
	ReasonLaunch           Reason = "launch-failed"
	ReasonPanelNotVisible  Reason = "panel-not-visible"
	ReasonSessionNotReady  Reason = "session-not-ready"
	ReasonAttach           Reason = "attach-failed"
	ReasonSubmit           Reason = "submit-failed"
	ReasonExecutionTimeout Reason = "execution-timeout"
	ReasonFinalize         Reason = "finalize-failed"
	ReasonCancelled        Reason = "cancelled"
)

// Job is one unit of work for the target application: a prompt to submit
// and an ordered list of file references to attach before submitting.
// An empty prompt attaches the files and stops there, leaving submission
// to the operator.
type Job struct {
	Prompt string   `json:"prompt"`
	Files  []string `json:"files"`
}

// StepResult records the outcome of a single executed step.
type StepResult struct {
	State    State         `json:"state"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result is the single success/failure outcome of a workflow run. Steps
// holds one entry per step that actually executed, in order; steps after
// the first failure never run and have no entry. Results exist only for
// the duration of reporting; nothing persists across runs.
type Result struct {
	RunID       string       `json:"run_id"`
	Success     bool         `json:"success"`
	FailedState State        `json:"failed_state,omitempty"`
	Reason      Reason       `json:"reason,omitempty"`
	Error       string       `json:"error,omitempty"`
	Steps       []StepResult `json:"steps"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}
