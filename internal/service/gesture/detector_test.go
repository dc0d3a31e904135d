package gesture

import (
	"testing"
	"time"
)

func at(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func spaceDown(editable bool) KeyEvent {
	return KeyEvent{Key: " ", Code: "Space", EditableTarget: editable}
}

func TestChordMatchesExactModifiers(t *testing.T) {
	d := NewDetector("ctrl+shift+e", "space")

	ev := KeyEvent{Key: "E", Code: "KeyE", Ctrl: true, Shift: true}
	res := d.HandleKeyDown(ev, at(0))
	if !res.Triggered || res.Source != SourceChord {
		t.Fatalf("expected chord trigger, got %+v", res)
	}
	if !res.PreventDefault {
		t.Fatal("chord trigger must cancel default handling")
	}
}

func TestChordRejectsExtraModifiers(t *testing.T) {
	d := NewDetector("ctrl+e", "space")

	ev := KeyEvent{Key: "e", Code: "KeyE", Ctrl: true, Shift: true}
	if res := d.HandleKeyDown(ev, at(0)); res.Triggered {
		t.Fatalf("extra modifier must not match: %+v", res)
	}
}

func TestChordRejectsMissingModifiers(t *testing.T) {
	d := NewDetector("ctrl+shift+e", "space")

	ev := KeyEvent{Key: "e", Code: "KeyE", Ctrl: true}
	if res := d.HandleKeyDown(ev, at(0)); res.Triggered {
		t.Fatalf("missing modifier must not match: %+v", res)
	}
}

func TestChordSpaceToken(t *testing.T) {
	d := NewDetector("ctrl+space", "")

	ev := KeyEvent{Key: " ", Code: "Space", Ctrl: true}
	res := d.HandleKeyDown(ev, at(0))
	if !res.Triggered || res.Source != SourceChord {
		t.Fatalf("expected space chord trigger, got %+v", res)
	}
}

func TestChordMatchesPhysicalCode(t *testing.T) {
	d := NewDetector("alt+e", "space")

	// Logical key differs (dead key layout); physical code still matches.
	ev := KeyEvent{Key: "€", Code: "KeyE", Alt: true}
	res := d.HandleKeyDown(ev, at(0))
	if !res.Triggered {
		t.Fatalf("expected code-based match, got %+v", res)
	}
}

func TestDoubleTapWithinWindowTriggersOnce(t *testing.T) {
	d := NewDetector("", "space")

	if res := d.HandleKeyDown(spaceDown(false), at(0)); res.Triggered {
		t.Fatalf("first tap must not trigger: %+v", res)
	}
	res := d.HandleKeyDown(spaceDown(false), at(399))
	if !res.Triggered || res.Source != SourceDoubleTap {
		t.Fatalf("expected double-tap trigger, got %+v", res)
	}
	if !res.PreventDefault {
		t.Fatal("second tap must cancel default handling")
	}

	// Timer state resets after a match: the next tap is a fresh first tap.
	if res := d.HandleKeyDown(spaceDown(false), at(450)); res.Triggered {
		t.Fatalf("tap after reset must not trigger: %+v", res)
	}
}

func TestDoubleTapOutsideWindowNeverTriggers(t *testing.T) {
	d := NewDetector("", "space")

	d.HandleKeyDown(spaceDown(false), at(0))
	if res := d.HandleKeyDown(spaceDown(false), at(400)); res.Triggered {
		t.Fatalf("taps 400ms apart must not trigger: %+v", res)
	}
	if res := d.HandleKeyDown(spaceDown(false), at(1500)); res.Triggered {
		t.Fatalf("stale tap must be treated as fresh first tap: %+v", res)
	}
}

func TestDoubleTapSuppressesSecondRelease(t *testing.T) {
	d := NewDetector("", "space")

	d.HandleKeyDown(spaceDown(false), at(0))
	if d.HandleKeyUp(spaceDown(false)) {
		t.Fatal("first release must not be suppressed")
	}
	d.HandleKeyDown(spaceDown(false), at(300))

	if !d.HandleKeyUp(spaceDown(false)) {
		t.Fatal("second release must be suppressed")
	}
	if d.HandleKeyUp(spaceDown(false)) {
		t.Fatal("suppression must apply to a single release only")
	}
}

func TestDoubleTapIgnoredOnEditableTarget(t *testing.T) {
	d := NewDetector("", "space")

	d.HandleKeyDown(spaceDown(true), at(0))
	if res := d.HandleKeyDown(spaceDown(true), at(100)); res.Triggered {
		t.Fatalf("editable target must never trigger: %+v", res)
	}
	if d.HandleKeyUp(spaceDown(true)) {
		t.Fatal("editable target must not suppress key-up")
	}
}

func TestDoubleTapIgnoresOtherKeys(t *testing.T) {
	d := NewDetector("", "space")

	ev := KeyEvent{Key: "a", Code: "KeyA"}
	d.HandleKeyDown(ev, at(0))
	if res := d.HandleKeyDown(ev, at(100)); res.Triggered {
		t.Fatalf("non-designated key must not trigger: %+v", res)
	}
}
