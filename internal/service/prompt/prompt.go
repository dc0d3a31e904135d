package prompt

import (
	"fmt"
	"strings"

	"github.com/okrause/elaborate/internal/model/page"
)

// DefaultInitial is used when no initial-prompt template is configured.
const DefaultInitial = "You are a helpful assistant embedded in a video page. " +
	"The video is titled \"{video_title}\" on the channel \"{channel_name}\". " +
	"Description: {video_description} {hashtags}. " +
	"Explain what was just said in the transcript below, clearly and concisely."

// DefaultFollowup is the server-side fallback when a request carries an
// empty systemPrompt.
const DefaultFollowup = "You are a helpful assistant continuing a conversation " +
	"about a video. Answer the latest question in the transcript below."

// RenderInitial substitutes the first occurrence of each metadata placeholder
// in the template. Unknown placeholders are left untouched.
func RenderInitial(template string, meta page.Metadata) string {
	s := template
	s = strings.Replace(s, "{video_title}", meta.VideoTitle, 1)
	s = strings.Replace(s, "{video_description}", meta.VideoDescription, 1)
	s = strings.Replace(s, "{hashtags}", meta.Hashtags, 1)
	s = strings.Replace(s, "{channel_name}", meta.ChannelName, 1)
	return s
}

// Grounding formats the banner shown alongside the first reply: the rendered
// system prompt plus the grounding transcript it was built from.
func Grounding(systemPrompt, transcript string) string {
	return fmt.Sprintf("System prompt: %s\n\nTranscript:\n%s", systemPrompt, transcript)
}
