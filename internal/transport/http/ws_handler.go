package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mathbattle-service/internal/app"
	"mathbattle-service/internal/domain"
)

// WSHandler bridges websocket connections to the match engine. One connection
// is one player identity; closing the socket is the implicit disconnect event.
type WSHandler struct {
	engine   *app.Engine
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.Engine, hub *Hub) *WSHandler {
	return &WSHandler{
		engine: engine,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createRoomPayload struct {
	PlayerName   string              `json:"playerName"`
	GameSettings domain.GameSettings `json:"gameSettings"`
}

type joinRoomPayload struct {
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type submitAnswerPayload struct {
	RoomCode      string `json:"roomCode"`
	Answer        string `json:"answer"`
	TimeRemaining int    `json:"timeRemaining"`
}

// ServeWS upgrades the request and runs the connection's read loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan domain.Event, 32),
	}
	h.hub.register(c)
	go c.writePump()

	defer func() {
		h.hub.unregister(c.id)
		h.engine.Disconnect(c.id)
		conn.Close()
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.dispatch(r, c, inbound)
	}
}

func (h *WSHandler) dispatch(r *http.Request, c *client, inbound inboundMessage) {
	switch inbound.Type {
	case "create-room":
		var payload createRoomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendInvalidPayload(c)
			return
		}
		created, err := h.engine.CreateRoom(c.id, payload.PlayerName, payload.GameSettings)
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.hub.joinRoom(c.id, created.RoomCode)
		c.enqueue(domain.Event{Type: domain.EventRoomCreated, Payload: created})

	case "join-room":
		var payload joinRoomPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendInvalidPayload(c)
			return
		}
		joined, err := h.engine.JoinRoom(c.id, payload.PlayerName, payload.RoomCode)
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.hub.joinRoom(c.id, joined.RoomCode)
		c.enqueue(domain.Event{Type: domain.EventRoomJoined, Payload: joined})

	case "start-game":
		var payload startGamePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendInvalidPayload(c)
			return
		}
		if err := h.engine.StartGame(r.Context(), c.id, payload.RoomCode); err != nil {
			h.sendError(c, err)
		}

	case "submit-answer":
		var payload submitAnswerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.sendInvalidPayload(c)
			return
		}
		result, err := h.engine.SubmitAnswer(c.id, payload.RoomCode, payload.Answer, payload.TimeRemaining)
		if err != nil {
			h.sendError(c, err)
			return
		}
		c.enqueue(domain.Event{Type: domain.EventAnswerResult, Payload: result})

	default:
		c.enqueue(domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{
			Kind:    domain.KindValidation,
			Message: "unsupported message type",
		}})
	}
}

// sendError translates a failure into an error event addressed only to the
// originating connection; it never aborts other sessions or players.
func (h *WSHandler) sendError(c *client, err error) {
	c.enqueue(domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{
		Kind:    domain.Kind(err),
		Message: err.Error(),
	}})
}

func (h *WSHandler) sendInvalidPayload(c *client) {
	c.enqueue(domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{
		Kind:    domain.KindValidation,
		Message: "invalid payload",
	}})
}
