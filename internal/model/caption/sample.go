package caption

import "time"

// Sample is a single caption-fragment observation. Immutable once created.
type Sample struct {
	Text       string    `json:"text"`
	ObservedAt time.Time `json:"observedAt"`
}

// Transcript is the windowed view derived from a buffer snapshot.
type Transcript struct {
	Text  string `json:"text"`
	Range string `json:"range"`
}
