package caption

import (
	"fmt"
	"strings"
	"time"

	"github.com/okrause/elaborate/internal/model/caption"
)

const (
	// DefaultMaxChars bounds the windowed transcript length.
	DefaultMaxChars = 500

	// CharsPerWord converts a word budget to a character budget when the
	// configuration only supplies a word count.
	CharsPerWord = 8

	ellipsis = "..."
)

// Window derives the bounded transcript view from a buffer snapshot. It is a
// pure function of its arguments: the same snapshot and clock value always
// produce the same output.
func Window(samples []caption.Sample, now time.Time, maxChars int) caption.Transcript {
	if len(samples) == 0 {
		return caption.Transcript{}
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	chunks := make([]string, 0, len(samples))
	for _, s := range samples {
		chunks = append(chunks, s.Text)
	}

	text := trimFront(strings.Join(chunks, " "), maxChars)
	oldest := samples[0].ObservedAt

	return caption.Transcript{
		Text:  text,
		Range: fmt.Sprintf("%s → %s", clock(oldest), clock(now)),
	}
}

// trimFront keeps the newest maxChars characters, marking truncation with a
// leading ellipsis. Older text is the least relevant, so it is discarded from
// the front.
func trimFront(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return ellipsis + string(runes[len(runes)-maxChars:])
}

func clock(t time.Time) string {
	s := t.Unix()
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
