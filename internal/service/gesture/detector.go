package gesture

import (
	"strings"
	"time"
)

// DoubleTapWindow is the debounce window for the double-activation trigger.
const DoubleTapWindow = 400 * time.Millisecond

// DefaultDoubleTapKey is the designated double-activation key.
const DefaultDoubleTapKey = "space"

// TriggerSource records which recognizer fired, for logging only — both
// sources invoke the same downstream capture sequence.
type TriggerSource string

const (
	SourceChord     TriggerSource = "chord"
	SourceDoubleTap TriggerSource = "double-tap"
)

// KeyEvent is a raw key observation forwarded from the host page.
type KeyEvent struct {
	Key            string `json:"key"`
	Code           string `json:"code"`
	Ctrl           bool   `json:"ctrl"`
	Shift          bool   `json:"shift"`
	Alt            bool   `json:"alt"`
	Meta           bool   `json:"meta"`
	EditableTarget bool   `json:"editableTarget"`
}

// KeyDownResult tells the host how to treat the event it just forwarded.
type KeyDownResult struct {
	Triggered      bool
	Source         TriggerSource
	PreventDefault bool
}

// Detector recognizes the two independent trigger conditions from a raw key
// stream. It is not safe for concurrent use; the bridge drives it from its
// single read loop.
type Detector struct {
	shortcut    Shortcut
	hasShortcut bool
	tapKey      string

	lastTap             time.Time
	suppressNextRelease bool
}

// NewDetector builds a detector from the configured chord descriptor and
// double-activation key token. Either recognizer can be disabled by an empty
// token.
func NewDetector(shortcutDescriptor, doubleTapKey string) *Detector {
	shortcut, ok := ParseShortcut(shortcutDescriptor)
	return &Detector{
		shortcut:    shortcut,
		hasShortcut: ok,
		tapKey:      strings.ToLower(strings.TrimSpace(doubleTapKey)),
	}
}

// HandleKeyDown runs both recognizers against a key-down event. The chord
// check returns early once matched, so at most one trigger fires per event.
func (d *Detector) HandleKeyDown(ev KeyEvent, now time.Time) KeyDownResult {
	if d.hasShortcut && d.shortcut.Matches(ev) {
		return KeyDownResult{Triggered: true, Source: SourceChord, PreventDefault: true}
	}

	if !d.isTapKey(ev) {
		return KeyDownResult{}
	}

	// Keys typed into inputs or editable regions pass through untouched.
	if ev.EditableTarget {
		return KeyDownResult{}
	}

	if !d.lastTap.IsZero() && now.Sub(d.lastTap) < DoubleTapWindow {
		d.lastTap = time.Time{}
		d.suppressNextRelease = true
		return KeyDownResult{Triggered: true, Source: SourceDoubleTap, PreventDefault: true}
	}

	// First tap: remember it and let the page's default handling proceed.
	d.lastTap = now
	d.suppressNextRelease = false
	return KeyDownResult{}
}

// HandleKeyUp reports whether the release must be suppressed so the page
// does not also react to the second activation.
func (d *Detector) HandleKeyUp(ev KeyEvent) bool {
	if d.suppressNextRelease && d.isTapKey(ev) {
		d.suppressNextRelease = false
		return true
	}
	return false
}

func (d *Detector) isTapKey(ev KeyEvent) bool {
	if d.tapKey == "" {
		return false
	}
	return strings.EqualFold(ev.Code, d.tapKey)
}
