package browser

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

// Kind selects the browser a Session drives.
type Kind string

const (
	Chrome  Kind = "chrome"
	Firefox Kind = "firefox"
	Edge    Kind = "MicrosoftEdge"
)

// DefaultKind is used when no kind is requested.
const DefaultKind = Firefox

// ParseKind maps a user supplied browser name to a Kind. An empty name
// yields DefaultKind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultKind, nil
	case "chrome", "chromium":
		return Chrome, nil
	case "firefox", "gecko":
		return Firefox, nil
	case "edge", "microsoftedge", "msedge":
		return Edge, nil
	default:
		return "", fmt.Errorf("unsupported browser %q", name)
	}
}

// String returns the WebDriver browserName of the kind.
func (k Kind) String() string {
	return string(k)
}

// capabilities builds the WebDriver capabilities requested by opts.
func capabilities(opts Options) selenium.Capabilities {
	kind := opts.Kind
	if kind == "" {
		kind = DefaultKind
	}

	args := append([]string(nil), opts.Args...)
	caps := selenium.Capabilities{"browserName": kind.String()}
	switch kind {
	case Chrome:
		if opts.Headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Args: args})
	case Firefox:
		if opts.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: args})
	case Edge:
		if opts.Headless {
			args = append(args, "--headless=new")
		}
		caps["ms:edgeOptions"] = map[string]any{"args": args}
	}
	return caps
}
