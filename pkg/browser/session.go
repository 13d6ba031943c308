package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/denizgursoy/stepreport/pkg/stepreport"
	"github.com/tebeka/selenium"
	"go.uber.org/zap"
)

// DefaultRemoteURL is the WebDriver endpoint used when none is given.
const DefaultRemoteURL = "http://localhost:4444/wd/hub"

var errSessionClosed = errors.New("browser session closed")

// Options configures Open.
type Options struct {
	Kind      Kind
	RemoteURL string
	Headless  bool
	Args      []string
	Logger    *zap.Logger
}

// driver is the part of a WebDriver session used for screenshots.
type driver interface {
	FindElement(by, value string) (stepreport.Element, error)
	Screenshot() ([]byte, error)
	Quit() error
}

// Session is one live browser. It is created by Open, handed to a suite as
// its screenshot capturer and closed by its creator.
type Session struct {
	kind   Kind
	driver driver
	remote selenium.WebDriver
	logger *zap.Logger
	closed bool
}

// Open starts a WebDriver session for opts.Kind.
func Open(opts Options) (*Session, error) {
	url := opts.RemoteURL
	if url == "" {
		url = DefaultRemoteURL
	}

	wd, err := selenium.NewRemote(capabilities(opts), url)
	if err != nil {
		return nil, fmt.Errorf("could not start %s session at %s: %w", opts.Kind, url, err)
	}

	s := newSession(opts.Kind, seleniumDriver{wd: wd}, opts.Logger)
	s.remote = wd
	s.logger.Info("browser session started", zap.String("browser", s.kind.String()), zap.String("url", url))
	return s, nil
}

func newSession(kind Kind, d driver, logger *zap.Logger) *Session {
	if kind == "" {
		kind = DefaultKind
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{kind: kind, driver: d, logger: logger}
}

// Kind returns the browser kind of the session.
func (s *Session) Kind() Kind { return s.kind }

// WebDriver returns the underlying WebDriver for driving the page. It is nil
// for sessions not created by Open.
func (s *Session) WebDriver() selenium.WebDriver { return s.remote }

// Close quits the browser. Closing twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.driver.Quit(); err != nil {
		return fmt.Errorf("could not quit %s session: %w", s.kind, err)
	}
	return nil
}

// Capture writes a PNG of target to outputPath. Element targets are
// screenshotted alone, FullScreen captures the window.
func (s *Session) Capture(ctx context.Context, target stepreport.Target, outputPath string) error {
	if s.closed {
		return errSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	png, err := s.screenshot(target)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("could not create screenshot directory: %w", err)
	}
	if err := os.WriteFile(outputPath, png, 0o644); err != nil {
		return fmt.Errorf("could not write screenshot %q: %w", outputPath, err)
	}

	s.logger.Debug("screenshot captured", zap.String("path", outputPath), zap.Int("bytes", len(png)))
	return nil
}

func (s *Session) screenshot(target stepreport.Target) ([]byte, error) {
	switch t := target.(type) {
	case stepreport.Locator:
		by, ok := t["by"]
		if !ok {
			by = t["using"]
		}
		if by == "" {
			return nil, fmt.Errorf("locator %v has no strategy", map[string]string(t))
		}
		return s.elementScreenshot(by, t["value"])
	case stepreport.By:
		return s.elementScreenshot(t.Using, t.Value)
	case stepreport.ElementTarget:
		if t.Element == nil {
			return nil, errors.New("element target has no element")
		}
		png, err := t.Element.Screenshot(true)
		if err != nil {
			return nil, fmt.Errorf("could not screenshot element: %w", err)
		}
		return png, nil
	default:
		png, err := s.driver.Screenshot()
		if err != nil {
			return nil, fmt.Errorf("could not screenshot window: %w", err)
		}
		return png, nil
	}
}

func (s *Session) elementScreenshot(by, value string) ([]byte, error) {
	using := strategy(by)
	el, err := s.driver.FindElement(using, value)
	if err != nil {
		return nil, fmt.Errorf("could not find element %s=%q: %w", using, value, err)
	}
	png, err := el.Screenshot(true)
	if err != nil {
		return nil, fmt.Errorf("could not screenshot element %s=%q: %w", using, value, err)
	}
	return png, nil
}

// strategy maps short locator names to WebDriver strategies.
func strategy(by string) string {
	switch strings.ToLower(strings.TrimSpace(by)) {
	case "id":
		return selenium.ByID
	case "xpath":
		return selenium.ByXPATH
	case "css", "css selector", "css_selector":
		return selenium.ByCSSSelector
	case "name":
		return selenium.ByName
	case "class", "class name", "class_name":
		return selenium.ByClassName
	case "tag", "tag name", "tag_name":
		return selenium.ByTagName
	case "link text", "link_text":
		return selenium.ByLinkText
	case "partial link text", "partial_link_text":
		return selenium.ByPartialLinkText
	default:
		return by
	}
}

// seleniumDriver adapts a selenium.WebDriver to driver.
type seleniumDriver struct {
	wd selenium.WebDriver
}

func (d seleniumDriver) FindElement(by, value string) (stepreport.Element, error) {
	el, err := d.wd.FindElement(by, value)
	if err != nil {
		return nil, err
	}
	return el, nil
}

func (d seleniumDriver) Screenshot() ([]byte, error) { return d.wd.Screenshot() }
func (d seleniumDriver) Quit() error                 { return d.wd.Quit() }
