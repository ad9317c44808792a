// Package websocket is the persistent-connection ingress: attendees and DJs
// join dancefloor groups, receive every broadcast, and send queue and chat
// events that run through the same services as the HTTP API.
package websocket

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dancefloor/backend/internal/broker"
	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/middleware"
	"github.com/dancefloor/backend/internal/services"
)

// Deps are the services the socket ingress dispatches to.
type Deps struct {
	Broker      *broker.Broker
	Queue       *services.QueueService
	Chat        *services.ChatService
	Dancefloors *services.DancefloorService
	Auth        *services.AuthService
	Identity    *services.IdentityService
	Limiter     *middleware.RateLimiter
}

// Handler upgrades connections and owns the set of live clients.
type Handler struct {
	broker      *broker.Broker
	queue       *services.QueueService
	chat        *services.ChatService
	dancefloors *services.DancefloorService
	auth        *services.AuthService
	identity    *services.IdentityService
	limiter     *middleware.RateLimiter
	upgrader    websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHandler creates a Handler. Browser origins must appear in
// allowedOrigins, or the list must contain "*".
func NewHandler(deps Deps, allowedOrigins []string) *Handler {
	h := &Handler{
		broker:      deps.Broker,
		queue:       deps.Queue,
		chat:        deps.Chat,
		dancefloors: deps.Dancefloors,
		auth:        deps.Auth,
		identity:    deps.Identity,
		limiter:     deps.Limiter,
		clients:     make(map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// ServeWS handles upgrade requests at /ws.
// Query params: token (DJ JWT, optional), clientId (stable attendee id, optional).
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	var principal services.Principal
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}
	if token != "" {
		claims, err := h.auth.ValidateToken(token)
		if err != nil {
			logging.LogSecurityEvent(r.Context(), logging.SecurityEventInvalidJWT, "invalid socket token")
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		principal = claims.Principal()
	}

	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("socket upgrade failed", slog.Any("error", err))
		return
	}

	name := principal.Name
	if name == "" {
		name = h.identity.GenerateName()
	}

	client := newClient(h, conn, h.broker.Subscribe(clientID), name, logging.ExtractClientIP(r), principal)
	h.register(client)

	client.logger().Info("socket connected",
		slog.String("name", name),
		slog.Bool("dj", principal.ID != ""),
	)

	go client.writePump()
	go client.readPump()
}

func (h *Handler) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Handler) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// ClientCount returns the number of live connections.
func (h *Handler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown sends a going-away close to every live connection. Hijacked
// connections are not drained by http.Server.Shutdown.
func (h *Handler) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.conn.Close()
	}
}
