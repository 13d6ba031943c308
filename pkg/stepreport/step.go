package stepreport

// Colors used for status cells in the report.
const (
	ColorPass    = "green"
	ColorFail    = "red"
	ColorWarning = "yellow"
	ColorNeutral = "antiquewhite"
)

// Step is one recorded occurrence within a case. It is implemented only by
// Event and Assertion.
type Step interface {
	// Label is the status text shown in the step table.
	Label() string
	// Color is the background color of the status cell.
	Color() string
	// StepDescription is the description as reported.
	StepDescription() string
	// Screenshot returns the captured image path and whether it is embedded.
	// An empty path means no image was captured.
	Screenshot() (path string, embed bool)
	// TestData is the rendered data string of the step.
	TestData() string

	isStep()
}

// Event is a narrative report entry without an outcome.
type Event struct {
	Description string
	Warning     bool
	Data        string
	ImagePath   string
	Embed       bool
}

func (Event) isStep() {}

// Label returns WARNING for warning events and DONE otherwise.
func (e Event) Label() string {
	if e.Warning {
		return "WARNING"
	}
	return "DONE"
}

// Color returns the warning or neutral color.
func (e Event) Color() string {
	if e.Warning {
		return ColorWarning
	}
	return ColorNeutral
}

func (e Event) StepDescription() string    { return e.Description }
func (e Event) Screenshot() (string, bool) { return e.ImagePath, e.Embed }
func (e Event) TestData() string           { return e.Data }

// Assertion is an evaluated report entry.
type Assertion struct {
	Description string
	// Expected describes the expected behavior.
	Expected string
	// OnFailure describes the behavior observed when the check fails.
	OnFailure string
	Passed    bool
	Data      string
	ImagePath string
	Embed     bool
}

func (Assertion) isStep() {}

// Label returns PASS or FAIL.
func (a Assertion) Label() string {
	if a.Passed {
		return "PASS"
	}
	return "FAIL"
}

// Color returns the pass or fail color.
func (a Assertion) Color() string {
	if a.Passed {
		return ColorPass
	}
	return ColorFail
}

// Actual returns the actual behavior text: the expected text when the
// assertion passed, the failure text otherwise.
func (a Assertion) Actual() string {
	if a.Passed {
		return a.Expected
	}
	return a.OnFailure
}

func (a Assertion) StepDescription() string    { return a.Description }
func (a Assertion) Screenshot() (string, bool) { return a.ImagePath, a.Embed }
func (a Assertion) TestData() string           { return a.Data }
