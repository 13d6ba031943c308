package stepreport

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScreenshotDirName is the screenshot root under the output directory.
const ScreenshotDirName = ".screenshots"

// Suite runs registered cases in order and produces one report.
type Suite struct {
	name          string
	tester        string
	runID         string
	outDir        string
	screenshotDir string

	cases []*Case
	ids   map[string]struct{}

	capturer  Capturer
	logger    *zap.Logger
	echo      io.Writer
	reporter  Reporter
	observers []Observer
	publisher Publisher
	hooks     []*Hooks
	now       func() time.Time

	zipReport         bool
	disableDebugPrint bool
	disableDebugLog   bool
}

// NewSuite creates a suite and its output directories. The output directory
// defaults to name, which must not be blank.
func NewSuite(name, tester string, opts ...SuiteOption) (*Suite, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptySuiteName
	}

	s := &Suite{
		name:     name,
		tester:   tester,
		runID:    uuid.NewString(),
		ids:      make(map[string]struct{}),
		logger:   zap.NewNop(),
		echo:     os.Stdout,
		reporter: NewConsoleReporter(true),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.outDir == "" {
		s.outDir = name
	}
	s.screenshotDir = filepath.Join(s.outDir, ScreenshotDirName)
	if err := os.MkdirAll(s.screenshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory %q: %w", s.screenshotDir, err)
	}

	return s, nil
}

// NewSuiteFromConfig creates a suite named by cfg. Options are applied after
// the config.
func NewSuiteFromConfig(cfg *Config, opts ...SuiteOption) (*Suite, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	return NewSuite(cfg.Name, cfg.Tester, append([]SuiteOption{WithConfig(cfg)}, opts...)...)
}

func (s *Suite) Name() string          { return s.name }
func (s *Suite) RunID() string         { return s.runID }
func (s *Suite) OutputDir() string     { return s.outDir }
func (s *Suite) ScreenshotDir() string { return s.screenshotDir }

// ReportPath is <output dir>/<name>.html.
func (s *Suite) ReportPath() string {
	return filepath.Join(s.outDir, s.name+".html")
}

// ArchivePath is <output dir>/<name>.zip.
func (s *Suite) ArchivePath() string {
	return filepath.Join(s.outDir, s.name+".zip")
}

// Cases returns the registered cases in registration order.
func (s *Suite) Cases() []*Case {
	cases := make([]*Case, len(s.cases))
	copy(cases, s.cases)
	return cases
}

// AddCase registers c. Suite defaults fill in any capturer, screenshot
// directory, logger, echo writer and debug toggles the case did not set.
func (s *Suite) AddCase(c *Case) error {
	if _, ok := s.ids[c.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCase, c.id)
	}

	if c.capturer == nil {
		c.capturer = s.capturer
	}
	if c.screenshotDir == "" {
		c.screenshotDir = s.screenshotDir
	}
	if c.logger == nil {
		c.logger = s.logger
	}
	if c.console == nil {
		c.console = s.echo
	}
	if !c.debugPrintSet {
		c.debugPrint = !s.disableDebugPrint
	}
	if !c.debugLogSet {
		c.debugLog = !s.disableDebugLog
	}

	s.ids[c.id] = struct{}{}
	s.cases = append(s.cases, c)
	return nil
}

// Run executes every case in registration order, classifies each into
// results and writes the report. A nil results starts a new collector.
// Case faults are recorded in results; report, archive and publish errors
// are returned.
func (s *Suite) Run(ctx context.Context, results *Results) (*Results, error) {
	if results == nil {
		results = NewResults()
	}
	hooks := NewHookExecutor(s.hooks...)

	results.StartedAt = s.now()
	s.logger.Info("suite started",
		zap.String("suite", s.name),
		zap.String("run", s.runID),
		zap.Int("cases", len(s.cases)))
	s.reporter.SuiteStart(s.name, len(s.cases))

	hooks.ExecuteBeforeAll()
	for _, c := range s.cases {
		hooks.ExecuteBeforeCase(c)
		s.reporter.CaseStart(c)

		result := s.runCase(ctx, c)
		results.Add(result)

		s.logCase(result)
		s.reporter.CaseFinished(result)
		for _, o := range s.observers {
			o.CaseFinished(result)
		}
		hooks.ExecuteAfterCase(result)
	}
	hooks.ExecuteAfterAll()
	results.Duration = s.now().Sub(results.StartedAt)

	if err := s.writeArtifacts(ctx, results); err != nil {
		s.logger.Error("report generation failed", zap.String("suite", s.name), zap.Error(err))
		return results, err
	}

	s.reporter.PrintSummary(results)
	return results, nil
}

func (s *Suite) runCase(ctx context.Context, c *Case) CaseResult {
	c.ctx = ctx
	startedAt := s.now()
	err := execute(c)

	result := CaseResult{
		Case:      c,
		Err:       err,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
	}
	switch {
	case err == nil:
		result.Outcome = OutcomeSucceeded
	case IsAssertionFailure(err):
		result.Outcome = OutcomeFailed
	default:
		result.Outcome = OutcomeErrored
	}
	return result
}

// execute runs setup, body and teardown. Teardown runs only when setup
// succeeded; its error is reported when the body did not fail.
func execute(c *Case) error {
	if err := invoke(c.setup, c); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	err := invoke(c.body, c)
	if terr := invoke(c.teardown, c); terr != nil && err == nil {
		err = fmt.Errorf("teardown: %w", terr)
	}
	return err
}

func invoke(fn CaseFunc, c *Case) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return fn(c)
}

func (s *Suite) logCase(result CaseResult) {
	fields := []zap.Field{
		zap.String("case", result.Case.ID()),
		zap.String("outcome", result.Outcome.String()),
		zap.String("status", result.Case.Status().String()),
		zap.Int("steps", len(result.Case.steps)),
		zap.Duration("duration", result.Duration),
	}
	if result.Outcome == OutcomeErrored {
		s.logger.Error("case errored", append(fields, zap.Error(result.Err))...)
		return
	}
	s.logger.Info("case finished", fields...)
}

// writeArtifacts renders the report, then optionally archives and
// publishes it.
func (s *Suite) writeArtifacts(ctx context.Context, results *Results) error {
	reportPath := s.ReportPath()
	meta := Metadata{
		Name:        s.name,
		Tester:      s.tester,
		GeneratedAt: s.now(),
		BaseDir:     s.outDir,
	}
	if err := GenerateHTMLReport(reportPath, results, meta); err != nil {
		return err
	}
	artifact := reportPath
	s.logger.Info("report written", zap.String("path", reportPath))

	if s.zipReport {
		archive, err := Archive(reportPath, s.screenshotDir, s.ArchivePath())
		if err != nil {
			return err
		}
		artifact = archive.Path
		s.logger.Info("report archived", zap.String("path", archive.Path), zap.Int("entries", len(archive.Entries)))
	}

	if s.publisher != nil {
		location, err := s.publisher.Publish(ctx, artifact)
		if err != nil {
			return fmt.Errorf("could not publish %q: %w", artifact, err)
		}
		s.logger.Info("report published", zap.String("location", location))
	}
	return nil
}
