package caption

import (
	"context"
	"time"
)

// DefaultPollInterval is the background sampling cadence.
const DefaultPollInterval = 500 * time.Millisecond

// Source exposes the currently displayed caption fragment, or "" when none.
// The engine polls it; swapping in a push-based source only requires feeding
// Buffer.Ingest from the push callback instead.
type Source interface {
	CurrentFragment() string
}

// Sampler periodically observes a Source into a Buffer for as long as its
// context lives.
type Sampler struct {
	buffer   *Buffer
	source   Source
	interval time.Duration
}

// NewSampler wires a poll loop over source into buffer.
func NewSampler(buffer *Buffer, source Source, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Sampler{buffer: buffer, source: source, interval: interval}
}

// Run polls until ctx is cancelled. Each tick ingests the current fragment;
// the buffer's dedup rule absorbs ticks that observe nothing new.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.buffer.Ingest(s.source.CurrentFragment(), now)
		}
	}
}
