package gesture

import "strings"

// Shortcut is a parsed chord descriptor such as "ctrl+shift+space". The last
// token is the primary key; every other token is a modifier flag.
type Shortcut struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
	Key   string
}

// ParseShortcut parses a chord descriptor. The literal token "space" maps to
// the space character so it can be compared against the logical key field.
// An empty descriptor disables the chord recognizer.
func ParseShortcut(descriptor string) (Shortcut, bool) {
	descriptor = strings.TrimSpace(strings.ToLower(descriptor))
	if descriptor == "" {
		return Shortcut{}, false
	}

	parts := strings.Split(descriptor, "+")
	key := parts[len(parts)-1]
	if key == "space" {
		key = " "
	}

	s := Shortcut{Key: key}
	for _, part := range parts[:len(parts)-1] {
		switch part {
		case "ctrl":
			s.Ctrl = true
		case "shift":
			s.Shift = true
		case "alt":
			s.Alt = true
		case "meta":
			s.Meta = true
		}
	}
	return s, true
}

// Matches reports whether a key-down event satisfies the chord. Modifier
// flags must equal the event's modifier state exactly, not merely be held;
// the primary key matches on either the logical key or the physical code.
func (s Shortcut) Matches(ev KeyEvent) bool {
	if s.Ctrl != ev.Ctrl || s.Shift != ev.Shift || s.Alt != ev.Alt || s.Meta != ev.Meta {
		return false
	}

	if strings.ToLower(ev.Key) == s.Key {
		return true
	}
	codeToken := strings.ReplaceAll(s.Key, " ", "space")
	return strings.Contains(strings.ToLower(ev.Code), codeToken)
}
