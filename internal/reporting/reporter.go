// File: internal/reporting/reporter.go

// Package reporting serializes workflow run results for offline inspection.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Beckjiang/autocomposer/internal/workflow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reporter writes one JSON document per run to a configured path. An empty
// path disables reporting entirely; Write then becomes a no-op.
type Reporter struct {
	path   string
	logger *zap.Logger
}

// NewReporter creates a Reporter targeting path.
func NewReporter(path string, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		path:   path,
		logger: logger.With(zap.String("component", "reporter")),
	}
}

// Write marshals the result and writes it to the report path, creating
// parent directories as needed. The file is overwritten on each run.
func (r *Reporter) Write(res *workflow.Result) error {
	if r.path == "" {
		return nil
	}
	if res == nil {
		return fmt.Errorf("reporting: nil result")
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("reporting: marshal result: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("reporting: create report directory: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("reporting: write report: %w", err)
	}

	r.logger.Info("Run report written",
		zap.String("path", r.path),
		zap.String("run_id", res.RunID),
		zap.Bool("success", res.Success))
	return nil
}
