package stepreport

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRollup(t *testing.T) {
	t.Run("passing steps keep pass", func(t *testing.T) {
		status := StatusPassed
		status = Rollup(status, Event{Description: "open"})
		status = Rollup(status, Assertion{Description: "check", Passed: true})
		require.Equal(t, StatusPassed, status)
	})

	t.Run("warning event escalates pass to warning", func(t *testing.T) {
		require.Equal(t, StatusWarning, Rollup(StatusPassed, Event{Warning: true}))
	})

	t.Run("failing assertion sets fail from any status", func(t *testing.T) {
		require.Equal(t, StatusFailed, Rollup(StatusPassed, Assertion{Passed: false}))
		require.Equal(t, StatusFailed, Rollup(StatusWarning, Assertion{Passed: false}))
	})

	t.Run("fail is sticky", func(t *testing.T) {
		require.Equal(t, StatusFailed, Rollup(StatusFailed, Event{Warning: true}))
		require.Equal(t, StatusFailed, Rollup(StatusFailed, Assertion{Passed: true}))
		require.Equal(t, StatusFailed, Rollup(StatusFailed, Event{}))
	})

	t.Run("warning never downgrades", func(t *testing.T) {
		require.Equal(t, StatusWarning, Rollup(StatusWarning, Assertion{Passed: true}))
		require.Equal(t, StatusWarning, Rollup(StatusWarning, Event{}))
		require.Equal(t, StatusWarning, Rollup(StatusWarning, Event{Warning: true}))
	})

	t.Run("status is monotonic over every sequence", func(t *testing.T) {
		steps := []Step{
			Event{},
			Event{Warning: true},
			Assertion{Passed: true},
			Assertion{Passed: false},
		}
		// every sequence of length 4 over the four step kinds
		for i := 0; i < 256; i++ {
			status := StatusPassed
			n := i
			for k := 0; k < 4; k++ {
				next := Rollup(status, steps[n%4])
				require.GreaterOrEqual(t, int(next), int(status))
				status = next
				n /= 4
			}
		}
	})
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "PASS", StatusPassed.String())
	require.Equal(t, "WARNING", StatusWarning.String())
	require.Equal(t, "FAIL", StatusFailed.String())
	require.Equal(t, "green", StatusPassed.Color())
	require.Equal(t, "yellow", StatusWarning.Color())
	require.Equal(t, "red", StatusFailed.Color())
}

func TestStep_DisplayAttributes(t *testing.T) {
	t.Run("event labels and colors", func(t *testing.T) {
		require.Equal(t, "DONE", Event{}.Label())
		require.Equal(t, ColorNeutral, Event{}.Color())
		require.Equal(t, "WARNING", Event{Warning: true}.Label())
		require.Equal(t, ColorWarning, Event{Warning: true}.Color())
	})

	t.Run("assertion actual follows outcome", func(t *testing.T) {
		passed := Assertion{Expected: "shows form", OnFailure: "no form", Passed: true}
		require.Equal(t, "PASS", passed.Label())
		require.Equal(t, ColorPass, passed.Color())
		require.Equal(t, "shows form", passed.Actual())

		failed := Assertion{Expected: "shows form", OnFailure: "no form"}
		require.Equal(t, "FAIL", failed.Label())
		require.Equal(t, ColorFail, failed.Color())
		require.Equal(t, "no form", failed.Actual())
	})
}
