package stepreport

import (
	"sort"
	"time"
)

// Outcome is the execution classification of a case. It is independent of
// the case Status: an errored case may still show PASS steps.
type Outcome int

const (
	// OutcomeSucceeded indicates the case ran to completion.
	OutcomeSucceeded Outcome = iota
	// OutcomeFailed indicates the case stopped on an assertion failure.
	OutcomeFailed
	// OutcomeErrored indicates the case stopped on any other fault.
	OutcomeErrored
)

// String returns a human-readable label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// CaseResult holds the classification of one executed case.
type CaseResult struct {
	// Case is the accumulated case, read-only once classified.
	Case *Case

	// Outcome is the bucket the case landed in.
	Outcome Outcome

	// Err is the assertion failure or fault that stopped the case. Nil for
	// succeeded cases.
	Err error

	// StartedAt is when the case started executing.
	StartedAt time.Time

	// Duration is the wall-clock execution time including setup and teardown.
	Duration time.Duration
}

// Results collects case outcomes into three disjoint buckets.
type Results struct {
	Succeeded []CaseResult
	Failed    []CaseResult
	Errored   []CaseResult

	// StartedAt is when the run started.
	StartedAt time.Time

	// Duration is the total wall-clock time of the run.
	Duration time.Duration
}

// NewResults creates an empty collector.
func NewResults() *Results {
	return &Results{}
}

// AddSuccess records a case that ran to completion.
func (r *Results) AddSuccess(result CaseResult) {
	result.Outcome = OutcomeSucceeded
	r.Succeeded = append(r.Succeeded, result)
}

// AddFailure records a case stopped by an assertion.
func (r *Results) AddFailure(result CaseResult) {
	result.Outcome = OutcomeFailed
	r.Failed = append(r.Failed, result)
}

// AddError records a case stopped by an unexpected fault.
func (r *Results) AddError(result CaseResult) {
	result.Outcome = OutcomeErrored
	r.Errored = append(r.Errored, result)
}

// Add records result into the bucket named by its Outcome.
func (r *Results) Add(result CaseResult) {
	switch result.Outcome {
	case OutcomeFailed:
		r.AddFailure(result)
	case OutcomeErrored:
		r.AddError(result)
	default:
		r.AddSuccess(result)
	}
}

// All returns every result, succeeded first, then failed, then errored.
func (r *Results) All() []CaseResult {
	all := make([]CaseResult, 0, len(r.Succeeded)+len(r.Failed)+len(r.Errored))
	all = append(all, r.Succeeded...)
	all = append(all, r.Failed...)
	all = append(all, r.Errored...)
	return all
}

// Sorted returns every result ordered by case id using byte-wise string
// comparison. Equal ids keep bucket order.
func (r *Results) Sorted() []CaseResult {
	all := r.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Case.ID() < all[j].Case.ID()
	})
	return all
}

// OK reports whether no case failed or errored.
func (r *Results) OK() bool {
	return len(r.Failed) == 0 && len(r.Errored) == 0
}

// Summary holds aggregate counters for a run.
type Summary struct {
	CasesTotal     int
	CasesSucceeded int
	CasesFailed    int
	CasesErrored   int
	StatusPassed   int
	StatusWarning  int
	StatusFailed   int
	StepsTotal     int
}

// Summary counts cases per bucket and per status.
func (r *Results) Summary() Summary {
	s := Summary{
		CasesSucceeded: len(r.Succeeded),
		CasesFailed:    len(r.Failed),
		CasesErrored:   len(r.Errored),
	}
	for _, res := range r.All() {
		s.CasesTotal++
		s.StepsTotal += len(res.Case.steps)
		switch res.Case.Status() {
		case StatusPassed:
			s.StatusPassed++
		case StatusWarning:
			s.StatusWarning++
		case StatusFailed:
			s.StatusFailed++
		}
	}
	return s
}
