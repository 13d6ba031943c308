package stepreport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSuite(t *testing.T, opts ...SuiteOption) *Suite {
	t.Helper()
	base := []SuiteOption{
		WithOutputDir(filepath.Join(t.TempDir(), "out")),
		WithReporter(NewNoopReporter()),
		WithEcho(io.Discard),
		WithNow(func() time.Time { return reportTime }),
	}
	s, err := NewSuite("Login Report", "Doug Walter", append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func TestNewSuite(t *testing.T) {
	t.Run("creates output and screenshot directories", func(t *testing.T) {
		s := newTestSuite(t)

		info, err := os.Stat(s.ScreenshotDir())
		require.NoError(t, err)
		require.True(t, info.IsDir())
		require.Equal(t, filepath.Join(s.OutputDir(), ".screenshots"), s.ScreenshotDir())
		require.Equal(t, filepath.Join(s.OutputDir(), "Login Report.html"), s.ReportPath())
		require.Equal(t, filepath.Join(s.OutputDir(), "Login Report.zip"), s.ArchivePath())
		require.NotEmpty(t, s.RunID())
	})

	t.Run("output directory defaults to the name", func(t *testing.T) {
		tmp := t.TempDir()
		t.Chdir(tmp)

		s, err := NewSuite("Smoke", "QA", WithReporter(NewNoopReporter()))
		require.NoError(t, err)
		require.Equal(t, "Smoke", s.OutputDir())

		_, err = os.Stat(filepath.Join(tmp, "Smoke", ".screenshots"))
		require.NoError(t, err)
	})
}

func TestSuite_AddCase(t *testing.T) {
	t.Run("rejects a blank name", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := NewSuite(" ", "Doug Walter")
		require.ErrorIs(t, err, ErrEmptySuiteName)

		_, err = NewSuiteFromConfig(&Config{})
		require.ErrorIs(t, err, ErrEmptySuiteName)

		_, err = os.Stat(ScreenshotDirName)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		s := newTestSuite(t)
		require.NoError(t, s.AddCase(NewCase("TC001", "first", nil)))

		err := s.AddCase(NewCase("TC001", "again", nil))
		require.ErrorIs(t, err, ErrDuplicateCase)
		require.Len(t, s.Cases(), 1)
	})

	t.Run("fills in suite defaults", func(t *testing.T) {
		controller := gomock.NewController(t)
		capturer := NewMockCapturer(controller)
		s := newTestSuite(t, WithScreenshots(capturer), WithConfig(&Config{DisableDebugPrint: true}))

		c := NewCase("TC001", "first", nil)
		explicit := NewCase("TC002", "second", nil, WithDebugPrint(true))
		require.NoError(t, s.AddCase(c))
		require.NoError(t, s.AddCase(explicit))

		require.Same(t, capturer, c.capturer)
		require.Equal(t, s.ScreenshotDir(), c.screenshotDir)
		require.False(t, c.debugPrint)
		require.True(t, c.debugLog)
		require.True(t, explicit.debugPrint)
	})
}

func TestSuite_Run(t *testing.T) {
	t.Run("classifies cases into three buckets", func(t *testing.T) {
		s := newTestSuite(t)

		require.NoError(t, s.AddCase(NewCase("TC003", "errors", func(c *Case) error {
			if err := c.ReportEvent("before fault"); err != nil {
				return err
			}
			return errors.New("connection refused")
		})))
		require.NoError(t, s.AddCase(NewCase("TC001", "passes", func(c *Case) error {
			return c.AssertEqual(1, 1, "a equals b", "a equals b", "a differs")
		})))
		require.NoError(t, s.AddCase(NewCase("TC002", "fails", func(c *Case) error {
			return c.AssertEqual(1, 2, "a equals b", "a equals b", "a differs")
		})))

		results, err := s.Run(context.Background(), nil)
		require.NoError(t, err)

		require.Equal(t, []string{"TC001"}, ids(results.Succeeded))
		require.Equal(t, []string{"TC002"}, ids(results.Failed))
		require.Equal(t, []string{"TC003"}, ids(results.Errored))
		require.Len(t, results.Errored[0].Case.Steps(), 1)
		require.Equal(t, StatusPassed, results.Errored[0].Case.Status())
	})

	t.Run("failing assertion halts remaining steps", func(t *testing.T) {
		s := newTestSuite(t)
		require.NoError(t, s.AddCase(NewCase("TC001", "halts", Sequence(
			func(c *Case) error { return c.ReportEvent("first") },
			func(c *Case) error { return c.AssertTrue(false, "check", "true", "false") },
			func(c *Case) error { return c.ReportEvent("never") },
		))))

		results, err := s.Run(context.Background(), nil)
		require.NoError(t, err)

		require.Len(t, results.Failed, 1)
		require.Len(t, results.Failed[0].Case.Steps(), 2)
		require.Equal(t, StatusFailed, results.Failed[0].Case.Status())
	})

	t.Run("recovers panics as errors", func(t *testing.T) {
		s := newTestSuite(t)
		require.NoError(t, s.AddCase(NewCase("TC001", "panics", func(c *Case) error {
			panic("nil element")
		})))

		results, err := s.Run(context.Background(), nil)
		require.NoError(t, err)

		require.Len(t, results.Errored, 1)
		var panicErr *PanicError
		require.ErrorAs(t, results.Errored[0].Err, &panicErr)
		require.Equal(t, "nil element", panicErr.Value)
		require.NotEmpty(t, panicErr.Stack)
	})

	t.Run("runs setup body and teardown in order", func(t *testing.T) {
		var calls []string
		s := newTestSuite(t)
		require.NoError(t, s.AddCase(NewCase("TC001", "ordered",
			func(c *Case) error { calls = append(calls, "body"); return errors.New("body") },
			WithSetup(func(c *Case) error { calls = append(calls, "setup"); return nil }),
			WithTeardown(func(c *Case) error { calls = append(calls, "teardown"); return nil }),
		)))

		results, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []string{"setup", "body", "teardown"}, calls)
		require.EqualError(t, results.Errored[0].Err, "body")
	})

	t.Run("failing setup skips body and teardown", func(t *testing.T) {
		bodyRan := false
		s := newTestSuite(t)
		require.NoError(t, s.AddCase(NewCase("TC001", "setup fails",
			func(c *Case) error { bodyRan = true; return nil },
			WithSetup(func(c *Case) error { return c.AssertTrue(false, "logged in", "yes", "no") }),
			WithTeardown(func(c *Case) error { bodyRan = true; return nil }),
		)))

		results, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		require.False(t, bodyRan)
		require.Len(t, results.Failed, 1)
		require.Contains(t, results.Failed[0].Err.Error(), "setup:")
	})

	t.Run("executes in registration order and reports by id", func(t *testing.T) {
		var order []string
		s := newTestSuite(t)
		for _, id := range []string{"TC010", "TC002", "TC001"} {
			require.NoError(t, s.AddCase(NewCase(id, "case "+id, func(c *Case) error {
				order = append(order, c.ID())
				return nil
			})))
		}

		_, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []string{"TC010", "TC002", "TC001"}, order)

		data, err := os.ReadFile(s.ReportPath())
		require.NoError(t, err)
		html := string(data)
		i1 := strings.Index(html, "<td>TC001</td>")
		i2 := strings.Index(html, "<td>TC002</td>")
		i10 := strings.Index(html, "<td>TC010</td>")
		require.True(t, i1 < i2 && i2 < i10, "report must be ordered by id")
	})

	t.Run("appends to a given collector", func(t *testing.T) {
		s := newTestSuite(t)
		require.NoError(t, s.AddCase(NewCase("TC002", "new", nil)))

		previous := NewResults()
		previous.AddSuccess(CaseResult{Case: NewCase("TC001", "old", nil)})

		results, err := s.Run(context.Background(), previous)
		require.NoError(t, err)
		require.Same(t, previous, results)
		require.Equal(t, []string{"TC001", "TC002"}, ids(results.Succeeded))
	})

	t.Run("zips the report and screenshots", func(t *testing.T) {
		controller := gomock.NewController(t)
		capturer := NewMockCapturer(controller)
		capturer.EXPECT().
			Capture(gomock.Any(), FullScreen{}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ Target, path string) error {
				writeFile(t, path, "png")
				return nil
			})

		s := newTestSuite(t, WithScreenshots(capturer), WithZipReport(true))
		require.NoError(t, s.AddCase(NewCase("TC001", "shot", func(c *Case) error {
			return c.ReportEvent("open page", Capture(FullScreen{}))
		})))

		_, err := s.Run(context.Background(), nil)
		require.NoError(t, err)

		entries := zipEntries(t, s.ArchivePath())
		require.Contains(t, entries, ".screenshots/TC001/1 - open page.png")
		require.Contains(t, entries, "Login Report.html")
		_, err = os.Stat(s.ReportPath())
		require.True(t, os.IsNotExist(err))
	})

	t.Run("notifies observers and hooks", func(t *testing.T) {
		controller := gomock.NewController(t)
		observer := NewMockObserver(controller)
		observer.EXPECT().
			CaseFinished(gomock.Any()).
			Do(func(result CaseResult) {
				require.Equal(t, "TC001", result.Case.ID())
				require.Equal(t, OutcomeSucceeded, result.Outcome)
			})

		var events []string
		late := &Hooks{
			Order:     10,
			BeforeAll: func() { events = append(events, "late-before-all") },
		}
		early := &Hooks{
			Order:      1,
			BeforeAll:  func() { events = append(events, "before-all") },
			BeforeCase: func(c *Case) { events = append(events, "before-"+c.ID()) },
			AfterCase:  func(r CaseResult) { events = append(events, "after-"+r.Case.ID()) },
			AfterAll:   func() { events = append(events, "after-all") },
		}

		s := newTestSuite(t, WithObserver(observer), WithHooks(late, early))
		require.NoError(t, s.AddCase(NewCase("TC001", "observed", nil)))

		_, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []string{"before-all", "late-before-all", "before-TC001", "after-TC001", "after-all"}, events)
	})

	t.Run("publishes the artifact", func(t *testing.T) {
		controller := gomock.NewController(t)
		publisher := NewMockPublisher(controller)

		s := newTestSuite(t, WithPublisher(publisher))
		publisher.EXPECT().
			Publish(gomock.Any(), s.ReportPath()).
			Return("s3://reports/Login Report.html", nil)

		_, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
	})

	t.Run("propagates publish errors", func(t *testing.T) {
		controller := gomock.NewController(t)
		publisher := NewMockPublisher(controller)
		boom := errors.New("bucket missing")
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return("", boom)

		s := newTestSuite(t, WithPublisher(publisher))

		_, err := s.Run(context.Background(), nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("propagates report write errors", func(t *testing.T) {
		s := newTestSuite(t)
		// a directory where the report file should go
		require.NoError(t, os.MkdirAll(filepath.Join(s.ReportPath(), "x"), 0o755))

		_, err := s.Run(context.Background(), nil)
		require.Error(t, err)
	})

	t.Run("prints summary through the reporter", func(t *testing.T) {
		var buf bytes.Buffer
		s := newTestSuite(t, WithReporter(NewConsoleReporterTo(&buf, false)))
		require.NoError(t, s.AddCase(NewCase("TC001", "printed", nil)))

		_, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		require.Contains(t, buf.String(), "Suite: Login Report (1 case(s))")
		require.Contains(t, buf.String(), "1 case(s) (1 succeeded, 0 failed, 0 errored)")
	})
}
