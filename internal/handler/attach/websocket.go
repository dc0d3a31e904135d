package attach

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/okrause/elaborate/internal/config"
	"github.com/okrause/elaborate/internal/model/page"
	"github.com/okrause/elaborate/internal/service/caption"
	"github.com/okrause/elaborate/internal/service/capture"
	"github.com/okrause/elaborate/internal/service/chat"
	"github.com/okrause/elaborate/internal/service/gesture"
)

// Handler upgrades an attachment request and runs one engine instance per
// connection. The host page stays a thin forwarder: it mirrors raw events in
// and renders the commands that come back.
type Handler struct {
	cfg      *config.Config
	asker    chat.Asker
	upgrader websocket.Upgrader
}

// New creates the attachment handler.
func New(cfg *config.Config, asker chat.Asker) *Handler {
	return &Handler{
		cfg:   cfg,
		asker: asker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the attachment endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/attach", h.handleAttach)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type keyPayload struct {
	Kind string `json:"kind"`
	gesture.KeyEvent
}

type captionPayload struct {
	Text string `json:"text"`
}

type playbackPayload struct {
	Playing bool `json:"playing"`
}

type messagePayload struct {
	Text string `json:"text"`
}

func (h *Handler) handleAttach(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[attach] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[attach] new attachment from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	bridge := newBridge(conn)
	buffer := caption.NewBuffer(h.cfg.Caption.Retention)
	sampler := caption.NewSampler(buffer, bridge, h.cfg.Caption.PollInterval)
	go sampler.Run(ctx)

	detector := gesture.NewDetector(h.cfg.Gesture.Shortcut, h.cfg.Gesture.DoubleTapKey)
	sequencer := capture.NewSequencer(buffer, bridge, bridge, h.cfg.Caption.MaxChars)
	controller := chat.NewController(chat.NewService(), sequencer, h.asker, bridge, bridge, chat.Options{
		InitialPrompt:  h.cfg.Prompts.Initial,
		ShowBanner:     h.cfg.Overlay.ShowBanner,
		PersistSession: h.cfg.Overlay.PersistSession,
	})
	defer controller.Close()

	h.readLoop(ctx, conn, bridge, detector, controller)
}

// readLoop drives the engine from the host's event stream. Key events are
// handled inline so gesture timing stays ordered; triggers and messages run
// on their own goroutines because they block on capture and completion.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, bridge *bridge, detector *gesture.Detector, controller *chat.Controller) {
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[attach] read error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "key":
			h.handleKey(ctx, bridge, detector, controller, msg.Data)
		case "caption":
			var p captionPayload
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				log.Printf("[attach] invalid caption payload: %v", err)
				continue
			}
			bridge.setFragment(p.Text)
		case "playback":
			var p playbackPayload
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				log.Printf("[attach] invalid playback payload: %v", err)
				continue
			}
			bridge.setPlaying(p.Playing)
		case "metadata":
			var meta page.Metadata
			if err := json.Unmarshal(msg.Data, &meta); err != nil {
				log.Printf("[attach] invalid metadata payload: %v", err)
				continue
			}
			bridge.setMetadata(meta)
		case "message":
			var p messagePayload
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				log.Printf("[attach] invalid message payload: %v", err)
				continue
			}
			go controller.SendMessage(ctx, p.Text)
		case "dismiss":
			controller.Close()
		default:
			log.Printf("[attach] unsupported message type: %s", msg.Type)
		}
	}
}

func (h *Handler) handleKey(ctx context.Context, bridge *bridge, detector *gesture.Detector, controller *chat.Controller, raw json.RawMessage) {
	var p keyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("[attach] invalid key payload: %v", err)
		return
	}

	switch p.Kind {
	case "down":
		result := detector.HandleKeyDown(p.KeyEvent, time.Now())
		if result.PreventDefault {
			bridge.send("keyHandled", map[string]bool{"preventDefault": true})
		}
		if result.Triggered {
			go controller.Trigger(ctx, result.Source)
		}
	case "up":
		if detector.HandleKeyUp(p.KeyEvent) {
			bridge.send("keyHandled", map[string]bool{"suppressRelease": true})
		}
	default:
		log.Printf("[attach] unsupported key kind: %s", p.Kind)
	}
}
