package stepreport

import "sort"

// Hooks holds suite lifecycle callbacks.
// All registered hooks are executed, sorted by Order.
type Hooks struct {
	// Order determines execution order (lower = runs first).
	// Hooks with same Order run in registration order.
	Order int

	// BeforeAll runs once before the first case.
	BeforeAll func()

	// AfterAll runs once after the last case, before the report is written.
	AfterAll func()

	// BeforeCase runs before the setup of each case.
	BeforeCase func(*Case)

	// AfterCase runs after each case is classified.
	AfterCase func(CaseResult)
}

// SortHooks sorts hooks by Order (ascending), keeping registration order
// for equal values.
func SortHooks(hooks []*Hooks) []*Hooks {
	sorted := make([]*Hooks, len(hooks))
	copy(sorted, hooks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	return sorted
}

// HookExecutor runs a sorted set of hooks.
type HookExecutor struct {
	hooks []*Hooks
}

// NewHookExecutor creates a HookExecutor, ignoring nil hooks.
func NewHookExecutor(hooks ...*Hooks) *HookExecutor {
	valid := make([]*Hooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			valid = append(valid, h)
		}
	}

	return &HookExecutor{
		hooks: SortHooks(valid),
	}
}

func (e *HookExecutor) ExecuteBeforeAll() {
	for _, h := range e.hooks {
		if h.BeforeAll != nil {
			h.BeforeAll()
		}
	}
}

func (e *HookExecutor) ExecuteAfterAll() {
	for _, h := range e.hooks {
		if h.AfterAll != nil {
			h.AfterAll()
		}
	}
}

func (e *HookExecutor) ExecuteBeforeCase(c *Case) {
	for _, h := range e.hooks {
		if h.BeforeCase != nil {
			h.BeforeCase(c)
		}
	}
}

func (e *HookExecutor) ExecuteAfterCase(result CaseResult) {
	for _, h := range e.hooks {
		if h.AfterCase != nil {
			h.AfterCase(result)
		}
	}
}
