package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/spinroom/tournament-manager/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Авторизация соединения не требуется: сокет только читает события.
		return true
	},
}

type WebsocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebsocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebsocketHandler {
	return &WebsocketHandler{hub: hub, logger: logger}
}

// ServeTournament обрабатывает GET /ws/tournaments/{tournamentID} — подписка
// на live-события турнира.
func (h *WebsocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.Int("tournament_id", tournamentID),
			slog.String("error", err.Error()))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.TournamentRoom(tournamentID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
