package stepreport

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Symbols for case outcomes
const (
	symbolPass  = "✓"
	symbolFail  = "✗"
	symbolError = "!"
)

// Reporter handles console output during a suite run.
type Reporter interface {
	SuiteStart(name string, cases int)
	CaseStart(c *Case)
	CaseFinished(result CaseResult)
	PrintSummary(results *Results)
}

// ConsoleReporter prints colored case lines and a final summary table.
type ConsoleReporter struct {
	out    io.Writer
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	bold   *color.Color
}

// NewConsoleReporter creates a reporter that prints to stdout.
func NewConsoleReporter(useColors bool) *ConsoleReporter {
	return NewConsoleReporterTo(os.Stdout, useColors)
}

// NewConsoleReporterTo creates a reporter that prints to w.
func NewConsoleReporterTo(w io.Writer, useColors bool) *ConsoleReporter {
	r := &ConsoleReporter{
		out:    w,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
	}
	if !useColors {
		for _, c := range []*color.Color{r.green, r.red, r.yellow, r.bold} {
			c.DisableColor()
		}
	}
	return r
}

// SuiteStart prints the suite header
func (r *ConsoleReporter) SuiteStart(name string, cases int) {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s (%d case(s))\n", r.bold.Sprint("Suite:"), name, cases)
}

// CaseStart prints the case header
func (r *ConsoleReporter) CaseStart(c *Case) {
	fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(c.ID()), c.Description())
}

// CaseFinished prints the outcome symbol and the stopping error, if any.
func (r *ConsoleReporter) CaseFinished(result CaseResult) {
	var symbol string
	switch result.Outcome {
	case OutcomeSucceeded:
		symbol = r.green.Sprint(symbolPass)
	case OutcomeFailed:
		symbol = r.red.Sprint(symbolFail)
	default:
		symbol = r.yellow.Sprint(symbolError)
	}
	fmt.Fprintf(r.out, "  %-60s %s %s\n", result.Case.ID()+" "+result.Outcome.String(), symbol, r.statusColor(result.Case.Status()).Sprint(result.Case.Status()))
	if result.Err != nil {
		fmt.Fprintln(r.out, r.red.Sprint("      "+result.Err.Error()))
	}
}

// PrintSummary prints a table of every case in report order followed by
// the bucket counts.
func (r *ConsoleReporter) PrintSummary(results *Results) {
	fmt.Fprintln(r.out)

	table := tablewriter.NewWriter(r.out)
	table.Header("ID", "Description", "Status", "Outcome", "Steps", "Duration")
	for _, res := range results.Sorted() {
		_ = table.Append([]string{
			res.Case.ID(),
			res.Case.Description(),
			res.Case.Status().String(),
			res.Outcome.String(),
			strconv.Itoa(len(res.Case.steps)),
			res.Duration.Round(time.Millisecond).String(),
		})
	}
	_ = table.Render()

	s := results.Summary()
	line := fmt.Sprintf("%d case(s)", s.CasesTotal)
	if s.CasesTotal > 0 {
		line += fmt.Sprintf(" (%s, %s, %s)",
			r.green.Sprintf("%d succeeded", s.CasesSucceeded),
			r.red.Sprintf("%d failed", s.CasesFailed),
			r.yellow.Sprintf("%d errored", s.CasesErrored))
	}
	fmt.Fprintln(r.out, line)
	fmt.Fprintf(r.out, "%d step(s)\n", s.StepsTotal)
}

func (r *ConsoleReporter) statusColor(s Status) *color.Color {
	switch s {
	case StatusFailed:
		return r.red
	case StatusWarning:
		return r.yellow
	default:
		return r.green
	}
}

// noopReporter discards all output
type noopReporter struct{}

// NewNoopReporter creates a reporter that discards all output
func NewNoopReporter() Reporter {
	return &noopReporter{}
}

func (r *noopReporter) SuiteStart(name string, cases int) {}
func (r *noopReporter) CaseStart(c *Case)                 {}
func (r *noopReporter) CaseFinished(result CaseResult)    {}
func (r *noopReporter) PrintSummary(results *Results)     {}
