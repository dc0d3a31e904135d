package conversation

import "time"

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one exchange entry. Turns are append-only and never mutated.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Session captures one overlay lifetime of conversation state.
type Session struct {
	ID        string    `json:"id"`
	Grounding string    `json:"grounding"`
	CreatedAt time.Time `json:"createdAt"`
}
