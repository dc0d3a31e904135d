package capture

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	captionmodel "github.com/okrause/elaborate/internal/model/caption"
	"github.com/okrause/elaborate/internal/service/caption"
)

const (
	// Ticks is the fixed number of samples taken after a trigger.
	Ticks = 6
	// TickInterval is the spacing between samples.
	TickInterval = 250 * time.Millisecond
)

// ErrCaptureInFlight rejects a trigger that arrives while a sequence is
// already running. Callers log and drop it.
var ErrCaptureInFlight = errors.New("capture sequence already in flight")

// Playback controls the host player.
type Playback interface {
	Playing() bool
	Pause()
}

// Sequencer turns a trigger into a finalized transcript. It pauses playback,
// samples the caption source a fixed number of times so text that only
// appears after the pause is still captured, and then derives the windowed
// transcript. Strictly sequential: one sequence at a time.
type Sequencer struct {
	buffer   *caption.Buffer
	source   caption.Source
	playback Playback
	maxChars int

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	mu       sync.Mutex
	inFlight bool
}

// NewSequencer wires the sequencer to its collaborators.
func NewSequencer(buffer *caption.Buffer, source caption.Source, playback Playback, maxChars int) *Sequencer {
	return &Sequencer{
		buffer:   buffer,
		source:   source,
		playback: playback,
		maxChars: maxChars,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Run executes one capture sequence and returns the finalized transcript.
func (s *Sequencer) Run(ctx context.Context) (captionmodel.Transcript, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return captionmodel.Transcript{}, ErrCaptureInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if s.playback != nil && s.playback.Playing() {
		s.playback.Pause()
	}

	for i := 0; i < Ticks; i++ {
		if i > 0 {
			if err := s.sleep(ctx, TickInterval); err != nil {
				return captionmodel.Transcript{}, err
			}
		}
		s.buffer.Ingest(s.source.CurrentFragment(), s.now())
	}

	transcript := caption.Window(s.buffer.Snapshot(), s.now(), s.maxChars)

	// The pause changes the caption renderer's update timing, so the last
	// fragment can land between the final tick and the window read. Patch it
	// in unless it already ends the windowed text.
	if latest := strings.TrimSpace(s.source.CurrentFragment()); latest != "" && !strings.HasSuffix(transcript.Text, latest) {
		if transcript.Text == "" {
			transcript.Text = latest
		} else {
			transcript.Text += " " + latest
		}
	}

	return transcript, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
