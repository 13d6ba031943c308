package stepreport

// Status is the rollup verdict of a case, derived from its steps.
// Values are ordered by precedence: a case can only move toward StatusFailed.
type Status int

const (
	// StatusPassed indicates no failing assertion and no warning event.
	StatusPassed Status = iota
	// StatusWarning indicates at least one warning event and no failing assertion.
	StatusWarning
	// StatusFailed indicates at least one failing assertion. It is sticky.
	StatusFailed
)

// String returns the label shown in the report.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusWarning:
		return "WARNING"
	case StatusFailed:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Color returns the background color used for the status cell.
func (s Status) Color() string {
	switch s {
	case StatusWarning:
		return ColorWarning
	case StatusFailed:
		return ColorFail
	default:
		return ColorPass
	}
}

// Rollup returns the case status after observing step.
// A failing assertion always yields StatusFailed, a warning event escalates
// StatusPassed to StatusWarning, and nothing else changes the status.
func Rollup(current Status, step Step) Status {
	if current == StatusFailed {
		return StatusFailed
	}

	switch s := step.(type) {
	case Assertion:
		if !s.Passed {
			return StatusFailed
		}
	case Event:
		if s.Warning && current == StatusPassed {
			return StatusWarning
		}
	}

	return current
}
