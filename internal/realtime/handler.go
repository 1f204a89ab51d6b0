package realtime

import (
	"context"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"
)

// ChatLister resolves the set of chats a connection should subscribe to at
// upgrade time (the connection joins/leaves individual chats afterward via
// Registry-delivered control signals).
type ChatLister interface {
	ListChatIDsForUser(ctx context.Context, userID int) ([]int, error)
}

// Handler upgrades an authenticated request to a websocket connection and
// runs its pipeline until disconnect.
type Handler struct {
	registry   *Registry
	fabric     *Fabric
	processor  InboundProcessor
	chatLister ChatLister
	relay      *Relay
	cfg        Config
	logger     *slog.Logger
}

func NewHandler(
	registry *Registry,
	fabric *Fabric,
	processor InboundProcessor,
	chatLister ChatLister,
	relay *Relay,
	cfg Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		registry:   registry,
		fabric:     fabric,
		processor:  processor,
		chatLister: chatLister,
		relay:      relay,
		cfg:        cfg,
		logger:     logger,
	}
}

// ServeHTTP upgrades the connection for the user ID attached to the request
// context by the session-token middleware (see internal/auth/middleware).
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request, userID int) {
	chatIDs, err := h.chatLister.ListChatIDsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list chats for websocket upgrade", "user_id", userID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("accept websocket", "user_id", userID, "error", err)
		return
	}

	connection := NewConnection(conn, userID, chatIDs, h.registry, h.fabric, h.processor, h.cfg, h.logger)

	h.logger.Info("websocket connection established", "user_id", userID, "chat_count", len(chatIDs))
	connection.Run(r.Context())
	h.logger.Info("websocket connection closed", "user_id", userID)
}
