package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mabood2003/FairPlay/realtime"
	"github.com/mabood2003/FairPlay/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the app origin; token auth happens before
	// the upgrade, so cross-origin upgrades are accepted here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub         *realtime.Hub
	gameService services.GameService
}

func NewWebSocketHandler(hub *realtime.Hub, gameService services.GameService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, gameService: gameService}
}

// Subscribe godoc
// @Summary      Subscribe to live updates for a game
// @Tags         games
// @Param        id path int true "Game ID"
// @Success      101
// @Security     BearerAuth
// @Router       /games/{id}/ws [get]
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Reject subscriptions to games that do not exist before upgrading.
	if _, err := h.gameService.GetGame(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		slog.Debug("websocket upgrade failed", slog.Int("game_id", id), slog.Any("error", err))
		return
	}

	realtime.NewClient(h.hub, conn, id)
}
