// File: internal/workflow/engine.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/config"
	"github.com/Beckjiang/autocomposer/internal/input"
	"github.com/Beckjiang/autocomposer/internal/launcher"
	"github.com/Beckjiang/autocomposer/internal/retry"
	"github.com/Beckjiang/autocomposer/internal/window"
)

// stepRetries bounds how many times a step body is re-run after its
// post-condition verification fails.
const stepRetries = 3

// errFocusLost aborts a step immediately; losing the target window is not
// recoverable by re-running the step body.
var errFocusLost = errors.New("target window focus could not be established")

// Locator finds a named template on screen. Implemented by vision.Locator.
type Locator interface {
	Locate(ctx context.Context, templateID string, confidence float64) (image.Point, bool, error)
}

// Engine executes the workflow state machine over a set of injected
// platform adapters. It holds no persistent state between runs; Run may be
// called repeatedly on the same Engine, but not concurrently.
type Engine struct {
	cfg      *config.Config
	window   window.Controller
	input    input.Driver
	locator  Locator
	launcher launcher.Launcher
	logger   *zap.Logger

	state State
}

// New wires an Engine. All dependencies are required.
func New(cfg *config.Config, win window.Controller, drv input.Driver, loc Locator, lch launcher.Launcher, logger *zap.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("workflow: config is required")
	}
	if win == nil {
		return nil, errors.New("workflow: window controller is required")
	}
	if drv == nil {
		return nil, errors.New("workflow: input driver is required")
	}
	if loc == nil {
		return nil, errors.New("workflow: locator is required")
	}
	if lch == nil {
		return nil, errors.New("workflow: launcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		window:   win,
		input:    drv,
		locator:  loc,
		launcher: lch,
		logger:   logger.With(zap.String("component", "workflow_engine")),
		state:    StateIdle,
	}, nil
}

// step is one state of the machine together with its body and failure
// classification. needsFocus gates the defensive re-focus that precedes the
// body; maxRuns bounds body re-execution after a failed verification.
type step struct {
	state      State
	reason     Reason
	needsFocus bool
	maxRuns    int
	run        func(ctx context.Context, job Job) error
}

// Run drives a single job through every state in order and returns the
// outcome. The first step failure halts the run; the returned Result then
// names the failing state and a stable reason code. Run never panics on
// adapter errors; they surface as a failed Result.
func (e *Engine) Run(ctx context.Context, job Job) Result {
	res := Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	e.logger.Info("Starting workflow run",
		zap.String("run_id", res.RunID),
		zap.Int("files", len(job.Files)),
		zap.Bool("has_prompt", job.Prompt != ""))

	for _, st := range e.steps(job) {
		e.transition(st.state)
		start := time.Now()
		err := e.runStep(ctx, st, job)
		sr := StepResult{State: st.state, Duration: time.Since(start)}
		if err != nil {
			sr.Error = err.Error()
			res.Steps = append(res.Steps, sr)
			res.FailedState = st.state
			res.Reason = classify(err, st)
			res.Error = err.Error()
			res.FinishedAt = time.Now()
			e.transition(StateFailed)
			e.logger.Error("Workflow run failed",
				zap.String("run_id", res.RunID),
				zap.String("state", string(st.state)),
				zap.String("reason", string(res.Reason)),
				zap.Error(err))
			return res
		}
		sr.Success = true
		res.Steps = append(res.Steps, sr)
	}

	e.transition(StateDone)
	res.Success = true
	res.FinishedAt = time.Now()
	e.logger.Info("Workflow run complete",
		zap.String("run_id", res.RunID),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)))
	return res
}

// runStep executes one step with its focus precondition and bounded body
// retries. A focus failure or context cancellation ends the step at once.
func (e *Engine) runStep(ctx context.Context, st step, job Job) error {
	var lastErr error
	for attempt := 1; attempt <= st.maxRuns; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.needsFocus && !e.window.Focus(ctx, e.cfg.App.WindowTitle) {
			return errFocusLost
		}
		if err := st.run(ctx, job); err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			e.logger.Warn("Step failed",
				zap.String("state", string(st.state)),
				zap.Int("attempt", attempt),
				zap.Int("max_runs", st.maxRuns),
				zap.Error(err))
			continue
		}
		return nil
	}
	return lastErr
}

// steps builds the ordered step list for a job. Jobs without a prompt stop
// after attaching inputs; submission and the waits that follow it only make
// sense once a prompt has been entered.
func (e *Engine) steps(job Job) []step {
	list := []step{
		{state: StateFocusing, reason: ReasonFocusLost, needsFocus: true, maxRuns: 1, run: e.noop},
		{state: StateOpeningApp, reason: ReasonLaunch, needsFocus: false, maxRuns: stepRetries, run: e.openApp},
		{state: StateOpeningPanel, reason: ReasonPanelNotVisible, needsFocus: true, maxRuns: stepRetries, run: e.openPanel},
		{state: StateStartingSession, reason: ReasonSessionNotReady, needsFocus: true, maxRuns: stepRetries, run: e.startSession},
		{state: StateAttachingInputs, reason: ReasonAttach, needsFocus: true, maxRuns: 1, run: e.attachInputs},
	}
	if job.Prompt == "" {
		return list
	}
	return append(list,
		step{state: StateSubmittingTask, reason: ReasonSubmit, needsFocus: true, maxRuns: 1, run: e.submitTask},
		step{state: StateAwaitingCompletion, reason: ReasonExecutionTimeout, needsFocus: true, maxRuns: 1, run: e.awaitCompletion},
		step{state: StateFinalizing, reason: ReasonFinalize, needsFocus: true, maxRuns: 1, run: e.finalize},
	)
}

func (e *Engine) noop(context.Context, Job) error { return nil }

// openApp runs the configured launch command against the project path and
// then confirms the project window can take focus. The launch command is
// expected to be idempotent; re-running it raises the existing window.
func (e *Engine) openApp(ctx context.Context, _ Job) error {
	if err := e.launcher.Open(ctx, e.cfg.App.ProjectPath); err != nil {
		return err
	}
	if err := retry.Sleep(ctx, e.cfg.Waits.AfterOpen); err != nil {
		return err
	}
	if !e.window.Focus(ctx, e.cfg.App.WindowTitle) {
		return fmt.Errorf("project window %q not focusable after launch", e.cfg.App.WindowTitle)
	}
	return nil
}

// openPanel issues the panel hotkey and verifies the panel-ready marker is
// on screen before moving on.
func (e *Engine) openPanel(ctx context.Context, _ Job) error {
	if err := e.input.KeyChord(ctx, e.cfg.Hotkeys.OpenPanel); err != nil {
		return err
	}
	if err := retry.Sleep(ctx, e.cfg.Waits.AfterOpen); err != nil {
		return err
	}
	return e.verifyVisible(ctx, config.TemplatePanelReady)
}

// startSession opens a fresh session and clears any residual editor
// content so the prompt starts from a blank slate.
func (e *Engine) startSession(ctx context.Context, _ Job) error {
	if err := e.input.KeyChord(ctx, e.cfg.Hotkeys.NewSession); err != nil {
		return err
	}
	if err := e.input.KeyChord(ctx, e.cfg.Hotkeys.SelectAll); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := e.input.PressKey(ctx, "delete"); err != nil {
			return err
		}
	}
	return nil
}

// attachInputs plays the attach gesture once per file. Attachment has no
// visible post-condition to verify, so gestures are fire-and-forget; a
// missed attachment surfaces later in the application's own output.
func (e *Engine) attachInputs(ctx context.Context, job Job) error {
	for _, f := range job.Files {
		if err := e.input.PressKey(ctx, "space"); err != nil {
			return err
		}
		if err := e.input.PressKey(ctx, "@"); err != nil {
			return err
		}
		if err := e.input.PasteText(ctx, f); err != nil {
			return err
		}
		if err := e.input.PressKey(ctx, "enter"); err != nil {
			return err
		}
		if err := retry.Sleep(ctx, e.cfg.Waits.PerFile); err != nil {
			return err
		}
	}
	return nil
}

// submitTask types the prompt and submits it, preferring a click on the
// send button when it can be located and falling back to the submit hotkey
// otherwise. Submission runs at most once per run; re-running it could
// queue the task twice.
func (e *Engine) submitTask(ctx context.Context, job Job) error {
	if err := e.input.TypeText(ctx, job.Prompt); err != nil {
		return err
	}

	center, found, err := e.locator.Locate(ctx, config.TemplateSendButton, e.cfg.Match.Confidence)
	if err != nil {
		e.logger.Warn("Send button lookup failed, falling back to hotkey", zap.Error(err))
	} else if found {
		clickErr := e.input.Click(ctx, center.X, center.Y)
		if clickErr == nil {
			return nil
		}
		e.logger.Warn("Send button click failed, falling back to hotkey", zap.Error(clickErr))
	}

	if err := e.input.KeyChord(ctx, e.cfg.Hotkeys.Submit); err != nil {
		return fmt.Errorf("submit hotkey failed: %w", err)
	}
	return nil
}

// awaitCompletion polls for the busy indicator to leave the screen. A
// lookup error counts as "still busy" for that tick; only the overall
// timeout fails the step.
func (e *Engine) awaitCompletion(ctx context.Context, _ Job) error {
	spec := retry.PollSpec{
		Timeout:  e.cfg.Waits.Execution,
		Interval: e.cfg.Waits.PollInterval,
	}
	return spec.Poll(ctx, e.logger, func(ctx context.Context) (bool, error) {
		_, found, err := e.locator.Locate(ctx, config.TemplateBusyIndicator, e.cfg.Match.Confidence)
		if err != nil {
			return false, err
		}
		return !found, nil
	})
}

// finalize accepts the produced result.
func (e *Engine) finalize(ctx context.Context, _ Job) error {
	return e.input.KeyChord(ctx, e.cfg.Hotkeys.Accept)
}

// verifyVisible retries a locate until the template is found, bounded by a
// short count so the caller's step retry can re-issue the triggering
// gesture.
func (e *Engine) verifyVisible(ctx context.Context, templateID string) error {
	spec := retry.Spec{
		MaxAttempts: 2,
		Interval:    e.cfg.Waits.PollInterval,
	}
	return spec.Do(ctx, e.logger, func(ctx context.Context) error {
		_, found, err := e.locator.Locate(ctx, templateID, e.cfg.Match.Confidence)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("template %q not visible", templateID)
		}
		return nil
	})
}

func (e *Engine) transition(next State) {
	e.logger.Info("State transition",
		zap.String("from", string(e.state)),
		zap.String("to", string(next)))
	e.state = next
}

// classify maps a step error to its stable reason code.
func classify(err error, st step) Reason {
	switch {
	case errors.Is(err, errFocusLost):
		return ReasonFocusLost
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	case errors.Is(err, retry.ErrPollTimeout):
		return ReasonExecutionTimeout
	default:
		return st.reason
	}
}
