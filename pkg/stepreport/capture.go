package stepreport

// Target identifies what a Capturer should photograph. A nil Target means no
// capture is taken. Implemented by Locator, By, ElementTarget and FullScreen.
type Target interface {
	isTarget()
}

// Locator identifies an element by named parts, for example
// Locator{"by": "id", "value": "login"}.
type Locator map[string]string

func (Locator) isTarget() {}

// By identifies an element by a positional (strategy, value) pair.
type By struct {
	Using string
	Value string
}

func (By) isTarget() {}

// Element is a live UI element able to screenshot itself.
type Element interface {
	Screenshot(scroll bool) ([]byte, error)
}

// ElementTarget captures a live element reference.
type ElementTarget struct {
	Element Element
}

func (ElementTarget) isTarget() {}

// FullScreen captures the whole browser window.
type FullScreen struct{}

func (FullScreen) isTarget() {}
