package caption

import (
	"strings"
	"sync"
	"time"

	"github.com/okrause/elaborate/internal/model/caption"
)

// DefaultRetention bounds how old a sample may get before it is pruned.
const DefaultRetention = 20 * time.Second

// Buffer retains a sliding time window of caption observations. It is the
// single source of truth for "what was recently said" and is fed by two
// independent producers: the background Sampler and the capture Sequencer.
// Both go through the same Ingest rule, so correctness depends on the
// dedup/prune check rather than on which producer got there first.
type Buffer struct {
	mu        sync.Mutex
	retention time.Duration
	samples   []caption.Sample
}

// NewBuffer returns an empty buffer with the given retention window.
// A non-positive retention falls back to DefaultRetention.
func NewBuffer(retention time.Duration) *Buffer {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Buffer{retention: retention}
}

// Ingest appends a new observation unless it is blank or repeats the last
// retained sample's text, then prunes everything older than the retention
// window. Non-consecutive repeats are kept on purpose.
func (b *Buffer) Ingest(text string, now time.Time) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if n := len(b.samples); n > 0 && b.samples[n-1].Text == trimmed {
		return
	}

	b.samples = append(b.samples, caption.Sample{Text: trimmed, ObservedAt: now})

	kept := b.samples[:0]
	for _, s := range b.samples {
		if now.Sub(s.ObservedAt) < b.retention {
			kept = append(kept, s)
		}
	}
	b.samples = kept
}

// Snapshot returns the retained samples in chronological order without
// mutating the buffer. Pruning only happens on Ingest, so a snapshot taken
// long after the last ingest may still contain samples past their window.
func (b *Buffer) Snapshot() []caption.Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	copied := make([]caption.Sample, len(b.samples))
	copy(copied, b.samples)
	return copied
}
