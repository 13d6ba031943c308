package feature

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/denizgursoy/stepreport/pkg/stepreport"
	"github.com/stretchr/testify/require"
)

func caseIDs(cases []*stepreport.Case) []string {
	ids := make([]string, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.ID())
	}
	return ids
}

func registerLoginSteps(r *Runner) *Runner {
	return r.
		RegisterStep(`^the browser is open$`, func(c *stepreport.Case) error {
			return c.ReportEvent("browser ready")
		}).
		RegisterStep(`^I open "([^"]*)"$`, func(c *stepreport.Case, url string) error {
			return c.ReportEvent("open " + url)
		}).
		RegisterStep(`^the page title is "([^"]*)"$`, func(c *stepreport.Case, title string) error {
			return c.AssertEqual("Login", title, "title matches", "title is "+title, "title differs")
		}).
		RegisterStep(`^values (\d+) and (\d+)$`, func(c *stepreport.Case, a, b int) error {
			return c.ReportEvent("enter values", stepreport.Fields("a", "b"))
		}).
		RegisterStep(`^a equals b$`, func(c *stepreport.Case) error {
			a, _ := c.Field("a")
			b, _ := c.Field("b")
			return c.AssertEqual(a, b, "a equals b", "a equals b", "a differs from b", stepreport.Fields("a", "b"))
		})
}

func TestRunner_Cases(t *testing.T) {
	t.Run("builds one case per pickle with ids", func(t *testing.T) {
		cases, err := registerLoginSteps(NewRunner().WithFeaturesDirectories("testdata")).Cases()
		require.NoError(t, err)

		require.Equal(t, []string{"TC100", "TC001", "TC002", "profile-001"}, caseIDs(cases))
		require.Equal(t, "Open the login page", cases[0].Description())
		require.Equal(t, []string{"id", "a", "b"}, cases[2].FieldNames())
		b, ok := cases[2].Field("b")
		require.True(t, ok)
		require.Equal(t, "2", b)
	})

	t.Run("filters by tag expression", func(t *testing.T) {
		cases, err := NewRunner().
			WithFeaturesDirectories("testdata").
			WithTags("@ui and not @smoke").
			Cases()
		require.NoError(t, err)
		require.Equal(t, []string{"TC001", "TC002"}, caseIDs(cases))
	})

	t.Run("rejects invalid tag expressions", func(t *testing.T) {
		_, err := NewRunner().WithFeaturesDirectories("testdata").WithTags("@a and").Cases()
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid tag expression")
	})

	t.Run("reports registration errors", func(t *testing.T) {
		_, err := NewRunner().
			RegisterStep("^dup$", func() {}).
			RegisterStep("^dup$", func() {}).
			Cases()
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate step pattern")
	})
}

func TestRunner_AddTo(t *testing.T) {
	t.Run("runs scenarios through a suite", func(t *testing.T) {
		suite, err := stepreport.NewSuite("Features", "QA",
			stepreport.WithOutputDir(filepath.Join(t.TempDir(), "out")),
			stepreport.WithReporter(stepreport.NewNoopReporter()),
			stepreport.WithEcho(io.Discard))
		require.NoError(t, err)

		runner := registerLoginSteps(NewRunner().WithFeaturesDirectories("testdata"))
		require.NoError(t, runner.AddTo(suite))

		results, err := suite.Run(context.Background(), nil)
		require.NoError(t, err)

		require.Equal(t, []string{"TC100", "TC001"}, resultIDs(results.Succeeded))
		require.Equal(t, []string{"TC002"}, resultIDs(results.Failed))
		// profile steps are not registered
		require.Equal(t, []string{"profile-001"}, resultIDs(results.Errored))
		require.ErrorIs(t, results.Errored[0].Err, ErrUndefinedStep)

		failed := results.Failed[0].Case
		require.Len(t, failed.Steps(), 2)
		require.Equal(t, "a: '1'\nb: '2'", failed.Steps()[1].TestData())
	})

	t.Run("records gherkin steps as events", func(t *testing.T) {
		suite, err := stepreport.NewSuite("Features", "QA",
			stepreport.WithOutputDir(filepath.Join(t.TempDir(), "out")),
			stepreport.WithReporter(stepreport.NewNoopReporter()),
			stepreport.WithEcho(io.Discard))
		require.NoError(t, err)

		runner := registerLoginSteps(NewRunner().WithFeaturesDirectories("testdata").WithTags("@smoke").WithStepEvents(true))
		require.NoError(t, runner.AddTo(suite))

		results, err := suite.Run(context.Background(), nil)
		require.NoError(t, err)

		steps := results.Succeeded[0].Case.Steps()
		require.Equal(t, "the browser is open", steps[0].StepDescription())
		require.Equal(t, "browser ready", steps[1].StepDescription())
	})
}

func resultIDs(results []stepreport.CaseResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Case.ID())
	}
	return ids
}
