package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	captionmodel "github.com/okrause/elaborate/internal/model/caption"
	"github.com/okrause/elaborate/internal/model/conversation"
	"github.com/okrause/elaborate/internal/model/page"
	"github.com/okrause/elaborate/internal/service/assistant"
	"github.com/okrause/elaborate/internal/service/capture"
	"github.com/okrause/elaborate/internal/service/gesture"
	"github.com/okrause/elaborate/internal/service/prompt"
)

// State names the controller's position in the activation lifecycle.
type State string

const (
	StateIdle                  State = "idle"
	StateAwaitingInitialReply  State = "awaiting-initial-reply"
	StateDisplayed             State = "displayed"
	StateAwaitingFollowupReply State = "awaiting-followup-reply"
	StateClosed                State = "closed"
)

// Surface is the presentation collaborator. Rendering itself stays in the
// host client; the controller only issues commands.
type Surface interface {
	RenderUserTurn(text string)
	RenderAssistantTurn(text string)
	RenderBanner(text string)
	ShowLoading()
	HideLoading()
}

// Capturer produces a finalized transcript for a trigger.
type Capturer interface {
	Run(ctx context.Context) (captionmodel.Transcript, error)
}

// Asker issues one completion request.
type Asker interface {
	Ask(ctx context.Context, transcript, systemPrompt string) (string, error)
}

// Options carries the configuration the controller consumes.
type Options struct {
	InitialPrompt string
	ShowBanner    bool
	// PersistSession keeps the turn log when the trigger fires again while
	// the overlay is already open instead of starting a fresh session.
	PersistSession bool
}

// Controller orchestrates trigger → capture → ask → conversation. One
// instance per attachment; no ambient state.
type Controller struct {
	sessions *Service
	capturer Capturer
	asker    Asker
	meta     page.Provider
	surface  Surface
	opts     Options

	mu        sync.Mutex
	state     State
	sessionID string
	// token identifies the reply the controller is still willing to accept;
	// Close rotates it so stale replies are swallowed instead of resurrecting
	// a dismissed overlay.
	token            string
	followupInFlight bool
}

// NewController wires the session controller to its collaborators.
func NewController(sessions *Service, capturer Capturer, asker Asker, meta page.Provider, surface Surface, opts Options) *Controller {
	return &Controller{
		sessions: sessions,
		capturer: capturer,
		asker:    asker,
		meta:     meta,
		surface:  surface,
		opts:     opts,
		state:    StateIdle,
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID reports the active session, or "" when none is open.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Trigger runs the full activation flow: capture a transcript, build the
// initial request from it plus the page metadata, and open (or refresh) the
// conversation with the reply. Blocking; callers run it on their own
// goroutine.
func (c *Controller) Trigger(ctx context.Context, source gesture.TriggerSource) {
	c.mu.Lock()
	if c.state == StateAwaitingInitialReply {
		c.mu.Unlock()
		log.Printf("[session] trigger (%s) ignored: activation already in progress", source)
		return
	}
	prev := c.state
	c.state = StateAwaitingInitialReply
	token := uuid.NewString()
	c.token = token
	c.mu.Unlock()

	transcript, err := c.capturer.Run(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrCaptureInFlight) {
			log.Printf("[session] trigger (%s) dropped: %v", source, err)
		} else {
			log.Printf("[session] capture failed: %v", err)
		}
		c.mu.Lock()
		if c.token == token {
			c.state = prev
		}
		c.mu.Unlock()
		return
	}

	// An empty transcript is not fatal; the request is still sent.
	systemPrompt := prompt.RenderInitial(c.opts.InitialPrompt, c.meta.Page())

	c.surface.ShowLoading()
	reply, askErr := c.asker.Ask(ctx, transcript.Text, systemPrompt)
	c.surface.HideLoading()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != token {
		log.Printf("[session] discarding reply for closed activation")
		return
	}
	if askErr != nil {
		reply = errorTurnText(askErr)
	}

	if c.sessionID == "" || !c.opts.PersistSession {
		if c.sessionID != "" {
			c.sessions.CloseSession(c.sessionID)
		}
		session := c.sessions.CreateSession(prompt.Grounding(systemPrompt, transcript.Text))
		c.sessionID = session.ID
		if c.opts.ShowBanner {
			c.surface.RenderBanner(session.Grounding)
		}
	}

	if err := c.sessions.AppendTurn(c.sessionID, conversation.Turn{
		Speaker: conversation.SpeakerAssistant,
		Text:    reply,
	}); err != nil {
		log.Printf("[session] append failed: %v", err)
	}
	c.surface.RenderAssistantTurn(reply)
	c.state = StateDisplayed
	log.Printf("[session] opened session=%s via %s trigger range=%q", c.sessionID, source, transcript.Range)
}

// SendMessage appends a user turn immediately and issues a follow-up request
// carrying the full turn history. The append never depends on the network
// outcome; failures become a visible error turn instead of a rollback. Only
// one follow-up call runs at a time — input arriving mid-flight is appended
// to the log but not sent.
func (c *Controller) SendMessage(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.state != StateDisplayed && c.state != StateAwaitingFollowupReply {
		c.mu.Unlock()
		log.Printf("[session] message ignored: no open conversation")
		return
	}
	sessionID := c.sessionID
	if err := c.sessions.AppendTurn(sessionID, conversation.Turn{
		Speaker: conversation.SpeakerUser,
		Text:    text,
	}); err != nil {
		c.mu.Unlock()
		log.Printf("[session] append failed: %v", err)
		return
	}
	c.surface.RenderUserTurn(text)

	if c.followupInFlight {
		c.mu.Unlock()
		log.Printf("[session] follow-up already in flight, message logged only")
		return
	}
	c.followupInFlight = true
	c.state = StateAwaitingFollowupReply
	token := uuid.NewString()
	c.token = token
	c.mu.Unlock()

	transcript, err := c.sessions.FollowupTranscript(sessionID)
	if err != nil {
		c.mu.Lock()
		c.followupInFlight = false
		c.mu.Unlock()
		log.Printf("[session] follow-up aborted: %v", err)
		return
	}

	c.surface.ShowLoading()
	// Empty systemPrompt: the remote service supplies its own default for
	// follow-ups.
	reply, askErr := c.asker.Ask(ctx, transcript, "")
	c.surface.HideLoading()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.followupInFlight = false
	if c.token != token {
		log.Printf("[session] discarding follow-up reply for closed session")
		return
	}
	if askErr != nil {
		reply = errorTurnText(askErr)
	}

	if err := c.sessions.AppendTurn(sessionID, conversation.Turn{
		Speaker: conversation.SpeakerAssistant,
		Text:    reply,
	}); err != nil {
		log.Printf("[session] append failed: %v", err)
		return
	}
	c.surface.RenderAssistantTurn(reply)
	c.state = StateDisplayed
}

// Close discards the active session. Replies still in flight compare against
// a rotated token and are swallowed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionID != "" {
		c.sessions.CloseSession(c.sessionID)
		c.sessionID = ""
	}
	c.token = ""
	c.state = StateClosed
}

func errorTurnText(err error) string {
	var remote *assistant.RemoteError
	if errors.As(err, &remote) {
		return "[Error: " + remote.Message + "]"
	}
	if errors.Is(err, assistant.ErrNoResponse) {
		return "[Error: No response]"
	}
	return "[Error: " + err.Error() + "]"
}
