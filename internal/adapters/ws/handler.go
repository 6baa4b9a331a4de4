package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/duskline/walkie/internal/app"
	"github.com/duskline/walkie/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades one HTTP request per connection and pumps it against
// an Orchestrator. Grounded on the teacher's SignalWSController
// (internal/adapters/signal/signal.go).
type Handler struct {
	Orch *app.Orchestrator
	log  zerolog.Logger
}

func NewHandler(orch *app.Orchestrator, log zerolog.Logger) *Handler {
	return &Handler{Orch: orch, log: log.With().Str("module", "adapters.ws").Logger()}
}

// Serve is a gin.HandlerFunc for the signalling WebSocket endpoint.
func (h *Handler) Serve(c *gin.Context) {
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("upgrade failed")
		return
	}

	id := core.ConnID(uuid.NewString())
	cn := newConn(sock)
	h.Orch.Sessions.Connect(id, cn, time.Now())

	go cn.writePump()
	h.readPump(id, cn)
}

func (h *Handler) readPump(id core.ConnID, cn *conn) {
	defer func() {
		h.Orch.OnDisconnect(id)
		cn.Close()
		h.log.Info().Str("conn", string(id)).Msg("connection closed")
	}()

	for {
		kind, data, err := cn.ws.ReadMessage()
		if err != nil {
			return
		}
		switch kind {
		case websocket.BinaryMessage:
			f := core.Frame(data)
			if !f.Valid() {
				continue
			}
			h.Orch.OnFrame(id, f)
		case websocket.TextMessage:
			h.dispatch(id, data)
		}
	}
}

// envelope covers every field any inbound message type may carry
// (spec.md §4.6). Unused fields for a given type are simply ignored.
type envelope struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Talking bool   `json:"talking"`
	Muted   bool   `json:"muted"`
}

func (h *Handler) dispatch(id core.ConnID, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Malformed JSON gets no reply to the client (spec.md §4.6); it is
		// only logged.
		h.log.Warn().Err(err).Str("conn", string(id)).Msg("malformed signalling message")
		return
	}

	switch env.Type {
	case "register":
		_ = h.Orch.Register(id, env.Name)
	case "create_channel":
		_ = h.Orch.CreateChannel(id, env.Channel)
	case "join":
		_ = h.Orch.Join(id, env.Channel)
	case "switch":
		_ = h.Orch.Switch(id, env.Channel)
	case "leave":
		h.Orch.Leave(id)
	case "close_channel":
		_ = h.Orch.CloseChannel(id, env.Channel, false)
	case "list_channels":
		h.Orch.ListChannels(id)
	case "talking":
		h.Orch.SetTalking(id, env.Talking)
	case "mute":
		h.Orch.SetMuted(id, env.Muted)
	case "ping":
		h.Orch.Ping(id, time.Now())
	default:
		h.Orch.UnknownType(id, env.Type)
	}
}
