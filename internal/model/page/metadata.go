package page

// Metadata holds the scraped video-page fields used to fill the initial
// prompt template. Every field may be empty.
type Metadata struct {
	VideoTitle       string `json:"video_title"`
	VideoDescription string `json:"video_description"`
	Hashtags         string `json:"hashtags"`
	ChannelName      string `json:"channel_name"`
}

// Provider exposes the page metadata known at request time.
type Provider interface {
	Page() Metadata
}
