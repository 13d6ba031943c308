package stepreport

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// CaseFunc is the body, setup or teardown of a case. Returning an
// *AssertionError classifies the case as failed, any other error as errored.
type CaseFunc func(c *Case) error

// Case accumulates the steps reported by one test case and derives its
// rollup status from them.
type Case struct {
	id          string
	description string

	setup    CaseFunc
	body     CaseFunc
	teardown CaseFunc

	steps  []Step
	status Status
	data   *orderedmap.OrderedMap[string, any]

	debugPrint    bool
	debugLog      bool
	debugPrintSet bool
	debugLogSet   bool

	capturer      Capturer
	screenshotDir string
	logger        *zap.Logger
	console       io.Writer
	now           func() time.Time
	ctx           context.Context
}

// NewCase creates a case identified by id. The id must be unique within a
// suite and is the sort key of the report.
func NewCase(id, description string, body CaseFunc, opts ...CaseOption) *Case {
	c := &Case{
		id:          id,
		description: description,
		body:        body,
		status:      StatusPassed,
		data:        orderedmap.New[string, any](),
		debugPrint:  true,
		debugLog:    true,
		now:         time.Now,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the case identifier.
func (c *Case) ID() string { return c.id }

// Description returns the human readable case description.
func (c *Case) Description() string { return c.description }

// Status returns the current rollup status.
func (c *Case) Status() Status { return c.status }

// Steps returns a copy of the recorded steps in append order.
func (c *Case) Steps() []Step {
	steps := make([]Step, len(c.steps))
	copy(steps, c.steps)
	return steps
}

// Context returns the context of the running suite.
func (c *Case) Context() context.Context { return c.ctx }

// Logger returns the case logger, tagged with the case id.
func (c *Case) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger.With(zap.String("case", c.id))
}

// Field returns the case data value stored under name.
func (c *Case) Field(name string) (any, bool) {
	return c.data.Get(name)
}

// FieldNames returns the names of the case data fields in declaration order.
func (c *Case) FieldNames() []string {
	names := make([]string, 0, c.data.Len())
	for pair := c.data.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// ReportEvent records a narrative step. A Warning() event escalates a
// passing case to StatusWarning. The returned error is non-nil only when a
// requested screenshot could not be captured; no step is recorded then.
func (c *Case) ReportEvent(description string, opts ...StepOption) error {
	cfg := newStepConfig(opts)
	imagePath, err := c.capture(cfg.target, description)
	if err != nil {
		return err
	}
	c.echo(description)

	c.append(Event{
		Description: description,
		Warning:     cfg.warning,
		Data:        c.dataString(cfg),
		ImagePath:   imagePath,
		Embed:       cfg.embed,
	})
	return nil
}

// ReportStep records an evaluated step with the given outcome. A failing
// outcome marks the case StatusFailed but does not stop it; use the Assert
// methods for that.
func (c *Case) ReportStep(description, expected, onFailure string, passed bool, opts ...StepOption) error {
	cfg := newStepConfig(opts)
	imagePath, err := c.capture(cfg.target, description)
	if err != nil {
		return err
	}
	c.echo(description)

	c.append(Assertion{
		Description: description,
		Expected:    expected,
		OnFailure:   onFailure,
		Passed:      passed,
		Data:        c.dataString(cfg),
		ImagePath:   imagePath,
		Embed:       cfg.embed,
	})
	return nil
}

func (c *Case) append(step Step) {
	c.steps = append(c.steps, step)
	c.status = Rollup(c.status, step)
}

func (c *Case) echo(description string) {
	if c.debugPrint && c.console != nil {
		fmt.Fprintf(c.console, "[%s] %s\n", c.now().Format(time.ANSIC), description)
	}
	if c.debugLog {
		c.Logger().Debug(description)
	}
}

// capture returns the path of the screenshot taken for the next step, or an
// empty path when target is nil.
func (c *Case) capture(target Target, description string) (string, error) {
	if target == nil {
		return "", nil
	}
	if c.capturer == nil {
		return "", fmt.Errorf("could not capture screenshot for step %q: %w", description, ErrNoCapturer)
	}

	path := c.screenshotPath(description)
	if err := c.capturer.Capture(c.ctx, target, path); err != nil {
		return "", fmt.Errorf("could not capture screenshot for step %q: %w", description, err)
	}
	return path, nil
}

// screenshotPath names the image of the next step as
// <dir>/<case id>/<step number> - <description>.png.
func (c *Case) screenshotPath(description string) string {
	name := fmt.Sprintf("%d - %s.png", len(c.steps)+1, fileSafe(description))
	return filepath.Join(c.screenshotDir, fileSafe(c.id), name)
}

func (c *Case) dataString(cfg stepConfig) string {
	switch {
	case cfg.hasText:
		return cfg.text
	case cfg.allFields:
		return c.formatFields(c.FieldNames())
	case len(cfg.fields) > 0:
		return c.formatFields(cfg.fields)
	default:
		return ""
	}
}

// formatFields renders the requested fields that exist in the case data as
// name: 'value' lines. Unknown names are skipped.
func (c *Case) formatFields(names []string) string {
	lines := make([]string, 0, len(names))
	for _, name := range names {
		value, ok := c.data.Get(name)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: '%v'", name, value))
	}
	return strings.Join(lines, "\n")
}

func fileSafe(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

// Sequence runs fns in order and stops at the first error.
func Sequence(fns ...CaseFunc) CaseFunc {
	return func(c *Case) error {
		for _, fn := range fns {
			if err := fn(c); err != nil {
				return err
			}
		}
		return nil
	}
}
