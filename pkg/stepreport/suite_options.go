package stepreport

import (
	"io"
	"time"

	"go.uber.org/zap"
)

// SuiteOption configures a Suite.
type SuiteOption func(*Suite)

// WithConfig applies the output, archive, debug and console settings of cfg.
func WithConfig(cfg *Config) SuiteOption {
	return func(s *Suite) {
		if cfg == nil {
			return
		}
		if cfg.OutputDir != "" {
			s.outDir = cfg.OutputDir
		}
		s.zipReport = cfg.ZipReport
		s.disableDebugPrint = cfg.DisableDebugPrint
		s.disableDebugLog = cfg.DisableDebugLog
		switch {
		case cfg.DisableReporter:
			s.reporter = NewNoopReporter()
		case cfg.NoColor:
			s.reporter = NewConsoleReporter(false)
		}
	}
}

// WithOutputDir sets where the report and screenshots are written.
func WithOutputDir(dir string) SuiteOption {
	return func(s *Suite) {
		s.outDir = dir
	}
}

// WithZipReport packages the report and screenshots after rendering.
func WithZipReport(enabled bool) SuiteOption {
	return func(s *Suite) {
		s.zipReport = enabled
	}
}

// WithScreenshots sets the capturer handed to cases.
func WithScreenshots(capturer Capturer) SuiteOption {
	return func(s *Suite) {
		s.capturer = capturer
	}
}

// WithLogger sets the suite logger, also handed to cases.
func WithLogger(logger *zap.Logger) SuiteOption {
	return func(s *Suite) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEcho sets the writer used for the debug echo of cases.
func WithEcho(w io.Writer) SuiteOption {
	return func(s *Suite) {
		s.echo = w
	}
}

// WithReporter replaces the console reporter.
func WithReporter(reporter Reporter) SuiteOption {
	return func(s *Suite) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithObserver adds an observer notified after each case.
func WithObserver(observer Observer) SuiteOption {
	return func(s *Suite) {
		s.observers = append(s.observers, observer)
	}
}

// WithPublisher uploads the produced artifact after rendering.
func WithPublisher(publisher Publisher) SuiteOption {
	return func(s *Suite) {
		s.publisher = publisher
	}
}

// WithHooks adds lifecycle hooks.
func WithHooks(hooks ...*Hooks) SuiteOption {
	return func(s *Suite) {
		s.hooks = append(s.hooks, hooks...)
	}
}

// WithNow overrides the time source of the suite.
func WithNow(now func() time.Time) SuiteOption {
	return func(s *Suite) {
		s.now = now
	}
}
