// Package realtime pushes game updates to subscribed websocket clients.
// Each game has a room; lifecycle operations broadcast into it. Clients are
// read-mostly: inbound messages are drained and ignored.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mabood2003/FairPlay/models"
)

const (
	EventGameUpdated = "GAME_UPDATED"
)

// Event is the wire format pushed to clients.
type Event struct {
	Type    string      `json:"type"`
	GameID  int         `json:"game_id"`
	Payload interface{} `json:"payload"`
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage

	mu     sync.RWMutex
	rooms  map[int]map[*Client]bool
	logger *slog.Logger
}

type roomMessage struct {
	gameID int
	data   []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		rooms:      make(map[int]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the room maps. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.gameID] == nil {
				h.rooms[client.gameID] = make(map[*Client]bool)
			}
			h.rooms[client.gameID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.gameID]; ok {
				if room[client] {
					delete(room, client)
					client.closeSend()
					if len(room) == 0 {
						delete(h.rooms, client.gameID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.gameID] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop the frame rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// GameUpdated satisfies the lifecycle notifier boundary. It never blocks the
// calling operation.
func (h *Hub) GameUpdated(game *models.Game) {
	data, err := json.Marshal(Event{
		Type:    EventGameUpdated,
		GameID:  game.ID,
		Payload: game,
	})
	if err != nil {
		h.logger.Error("failed to marshal game event", slog.Int("game_id", game.ID), slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- roomMessage{gameID: game.ID, data: data}:
	default:
		h.logger.Warn("realtime broadcast queue full, dropping event", slog.Int("game_id", game.ID))
	}
}
