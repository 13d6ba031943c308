package stepreport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// SortHooks Tests
// =============================================================================

func TestSortHooks(t *testing.T) {
	t.Run("sorts hooks by Order ascending", func(t *testing.T) {
		sorted := SortHooks([]*Hooks{{Order: 3}, {Order: 1}, {Order: 2}})

		require.Equal(t, 1, sorted[0].Order)
		require.Equal(t, 2, sorted[1].Order)
		require.Equal(t, 3, sorted[2].Order)
	})

	t.Run("stable sort preserves order for equal Order values", func(t *testing.T) {
		var callOrder []string
		h1 := &Hooks{BeforeAll: func() { callOrder = append(callOrder, "first") }}
		h2 := &Hooks{BeforeAll: func() { callOrder = append(callOrder, "second") }}

		NewHookExecutor(h1, h2).ExecuteBeforeAll()

		require.Equal(t, []string{"first", "second"}, callOrder)
	})

	t.Run("does not modify original slice", func(t *testing.T) {
		original := []*Hooks{{Order: 2}, {Order: 1}}

		sorted := SortHooks(original)
		require.Equal(t, 2, original[0].Order)
		require.Equal(t, 1, sorted[0].Order)
	})
}

// =============================================================================
// HookExecutor Tests
// =============================================================================

func TestHookExecutor(t *testing.T) {
	t.Run("filters out nil hooks and nil callbacks", func(t *testing.T) {
		var count int
		exec := NewHookExecutor(nil, &Hooks{AfterAll: func() { count++ }}, nil, &Hooks{})

		exec.ExecuteBeforeAll()
		exec.ExecuteAfterAll()
		exec.ExecuteBeforeCase(quietCase("TC001"))
		exec.ExecuteAfterCase(CaseResult{Case: quietCase("TC001")})

		require.Equal(t, 1, count)
	})

	t.Run("passes case and result", func(t *testing.T) {
		var before string
		var after Outcome
		exec := NewHookExecutor(&Hooks{
			BeforeCase: func(c *Case) { before = c.ID() },
			AfterCase:  func(r CaseResult) { after = r.Outcome },
		})

		exec.ExecuteBeforeCase(quietCase("TC007"))
		exec.ExecuteAfterCase(CaseResult{Case: quietCase("TC007"), Outcome: OutcomeErrored})

		require.Equal(t, "TC007", before)
		require.Equal(t, OutcomeErrored, after)
	})
}
