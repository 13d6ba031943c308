package stepreport

import (
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
)

// CaseOption configures a Case.
type CaseOption func(*Case)

// WithSetup runs fn before the body. A failing setup skips body and teardown.
func WithSetup(fn CaseFunc) CaseOption {
	return func(c *Case) {
		c.setup = fn
	}
}

// WithTeardown runs fn after the body, even when the body failed.
func WithTeardown(fn CaseFunc) CaseOption {
	return func(c *Case) {
		c.teardown = fn
	}
}

// WithField appends one case data field. Fields keep declaration order.
func WithField(name string, value any) CaseOption {
	return func(c *Case) {
		c.data.Set(name, value)
	}
}

// WithData adds all entries of data as case fields, in key order.
func WithData(data map[string]any) CaseOption {
	return func(c *Case) {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.data.Set(k, data[k])
		}
	}
}

// WithDebugPrint toggles echoing step descriptions to the console.
func WithDebugPrint(enabled bool) CaseOption {
	return func(c *Case) {
		c.debugPrint = enabled
		c.debugPrintSet = true
	}
}

// WithDebugLog toggles logging step descriptions at debug level.
func WithDebugLog(enabled bool) CaseOption {
	return func(c *Case) {
		c.debugLog = enabled
		c.debugLogSet = true
	}
}

// WithCapturer sets the screenshot capturer of the case.
func WithCapturer(capturer Capturer) CaseOption {
	return func(c *Case) {
		c.capturer = capturer
	}
}

// WithScreenshotDir sets the root directory of the case screenshots.
func WithScreenshotDir(dir string) CaseOption {
	return func(c *Case) {
		c.screenshotDir = dir
	}
}

// WithCaseLogger sets the logger used for debug echo.
func WithCaseLogger(logger *zap.Logger) CaseOption {
	return func(c *Case) {
		c.logger = logger
	}
}

// WithConsole sets the writer used for debug echo.
func WithConsole(w io.Writer) CaseOption {
	return func(c *Case) {
		c.console = w
	}
}

// WithClock overrides the time source of debug echo timestamps.
func WithClock(now func() time.Time) CaseOption {
	return func(c *Case) {
		c.now = now
	}
}

// StepOption configures a single reported step.
type StepOption func(*stepConfig)

type stepConfig struct {
	warning   bool
	fields    []string
	allFields bool
	text      string
	hasText   bool
	embed     bool
	target    Target
}

func newStepConfig(opts []StepOption) stepConfig {
	var cfg stepConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Warning flags an event as a warning. It has no effect on assertions.
func Warning() StepOption {
	return func(cfg *stepConfig) {
		cfg.warning = true
	}
}

// Fields renders the named case data fields as the step test data.
// Names missing from the case data are omitted.
func Fields(names ...string) StepOption {
	return func(cfg *stepConfig) {
		cfg.fields = append(cfg.fields, names...)
	}
}

// AllFields renders every case data field as the step test data.
func AllFields() StepOption {
	return func(cfg *stepConfig) {
		cfg.allFields = true
	}
}

// Text uses s verbatim as the step test data.
func Text(s string) StepOption {
	return func(cfg *stepConfig) {
		cfg.text = s
		cfg.hasText = true
	}
}

// Capture takes a screenshot of target before the step is recorded.
func Capture(target Target) StepOption {
	return func(cfg *stepConfig) {
		cfg.target = target
	}
}

// EmbedImage renders the screenshot inline instead of as a link.
func EmbedImage() StepOption {
	return func(cfg *stepConfig) {
		cfg.embed = true
	}
}
