// -- cmd/run.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/input"
	"github.com/Beckjiang/autocomposer/internal/launcher"
	"github.com/Beckjiang/autocomposer/internal/observability"
	"github.com/Beckjiang/autocomposer/internal/reporting"
	"github.com/Beckjiang/autocomposer/internal/screen"
	"github.com/Beckjiang/autocomposer/internal/vision"
	"github.com/Beckjiang/autocomposer/internal/window"
	"github.com/Beckjiang/autocomposer/internal/workflow"
)

var (
	runPrompt string
	runFiles  []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the target application through a single task",
	Long: `Run focuses the target application, opens its task panel, starts a
fresh session, attaches the given files, submits the prompt, and waits for
the application to finish before accepting the result.

With no prompt, the run stops after attaching files and leaves submission
to the operator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		var capturer screen.Capturer = screen.NewDisplayCapturer(logger)
		if cfg.Capture.DebugDir != "" {
			capturer = screen.NewDebugCapturer(capturer, cfg.Capture.DebugDir, logger)
		}

		assets := vision.NewFileStore(cfg.Templates, logger)
		locator := vision.NewLocator(capturer, assets, cfg.Capture.Monitor, logger)
		driver := input.NewRobotDriver(cfg.Input, logger)
		controller := window.NewRobotController(cfg.Input.Settle, logger)
		opener := launcher.NewCommandLauncher(cfg.App, cfg.Input.Settle, logger)

		engine, err := workflow.New(cfg, controller, driver, locator, opener, logger)
		if err != nil {
			return err
		}

		result := engine.Run(cmd.Context(), workflow.Job{
			Prompt: runPrompt,
			Files:  runFiles,
		})

		reporter := reporting.NewReporter(cfg.Report.Path, logger)
		if err := reporter.Write(&result); err != nil {
			logger.Error("Failed to write run report", zap.Error(err))
		}

		if !result.Success {
			return fmt.Errorf("run %s failed in state %s: %s (%s)",
				result.RunID, result.FailedState, result.Reason, result.Error)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runPrompt, "prompt", "p", "", "task prompt to submit (omit to only attach files)")
	runCmd.Flags().StringArrayVarP(&runFiles, "file", "f", nil, "file reference to attach (repeatable, attached in order)")
	rootCmd.AddCommand(runCmd)
}
