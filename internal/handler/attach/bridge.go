package attach

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/okrause/elaborate/internal/model/page"
)

type outboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// bridge mirrors the page state the host forwards and relays presentation
// commands back over the same connection. It stands in for the page on every
// engine collaborator interface: caption source, playback control, metadata
// provider and conversation surface.
type bridge struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu       sync.RWMutex
	fragment string
	playing  bool
	meta     page.Metadata
}

func newBridge(conn *websocket.Conn) *bridge {
	return &bridge{conn: conn}
}

func (b *bridge) send(msgType string, data interface{}) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(outboundMessage{Type: msgType, Data: data}); err != nil {
		log.Printf("[attach] write %s failed: %v", msgType, err)
	}
}

func (b *bridge) setFragment(text string) {
	b.mu.Lock()
	b.fragment = text
	b.mu.Unlock()
}

func (b *bridge) setPlaying(playing bool) {
	b.mu.Lock()
	b.playing = playing
	b.mu.Unlock()
}

func (b *bridge) setMetadata(meta page.Metadata) {
	b.mu.Lock()
	b.meta = meta
	b.mu.Unlock()
}

// CurrentFragment returns the caption text last seen on the page.
func (b *bridge) CurrentFragment() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fragment
}

// Playing reports the mirrored playback state.
func (b *bridge) Playing() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.playing
}

// Pause asks the host to pause the video. The mirror flips immediately so the
// capture sequence never pauses twice.
func (b *bridge) Pause() {
	b.mu.Lock()
	b.playing = false
	b.mu.Unlock()
	b.send("pause", nil)
}

// Page returns the video metadata last forwarded by the host.
func (b *bridge) Page() page.Metadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.meta
}

func (b *bridge) RenderUserTurn(text string) {
	b.send("user", map[string]string{"text": text})
}

func (b *bridge) RenderAssistantTurn(text string) {
	b.send("assistant", map[string]string{"text": text})
}

func (b *bridge) RenderBanner(text string) {
	b.send("banner", map[string]string{"text": text})
}

func (b *bridge) ShowLoading() {
	b.send("loading", map[string]bool{"visible": true})
}

func (b *bridge) HideLoading() {
	b.send("loading", map[string]bool{"visible": false})
}
