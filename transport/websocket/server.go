package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const sessionCookie = "user_session"

type manager interface {
	Connect(clientID string) string
	Disconnect(clientID string)

	Start(ctx context.Context, clientID, game string, opts json.RawMessage) (any, error)
	Handle(ctx context.Context, clientID, game, action string, args json.RawMessage) (any, error)
	State(clientID, game string) (any, error)
	Leave(clientID, game string) error
}

type handler func(ctx context.Context, client *client, message *Message) error

type Server struct {
	logger   *slog.Logger
	manager  manager
	upgrader websocket.Upgrader

	handlers map[string]handler

	clientsMutex sync.RWMutex
	clients      map[string]*client
}

func New(logger *slog.Logger, manager manager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handler),
		clients:  make(map[string]*client),
	}

	server.handlers[ActionConnect] = server.handleConnect
	server.handlers[ActionGameStart] = server.handleGameStart
	server.handlers[ActionGameAction] = server.handleGameAction
	server.handlers[ActionGameState] = server.handleGameState
	server.handlers[ActionGameLeave] = server.handleGameLeave

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server, it stops when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.With("method", "Start").Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Notify pushes a snapshot produced by a timer to the client's connection.
func (that *Server) Notify(clientID, game string, snapshot any) {
	that.clientsMutex.RLock()
	client, ok := that.clients[clientID]
	that.clientsMutex.RUnlock()

	if !ok {
		return
	}

	message, err := newMessage(ActionGameUpdate, Payload{Game: game, State: snapshot})
	if err != nil {
		that.logger.With("method", "Notify").Error("failed to build update", "error", err)
		return
	}

	if !client.push(message) {
		that.logger.With("method", "Notify").Warn("update dropped, client is too slow", "client", clientID, "game", game)
	}
}

// upgradeToWebSocket - upgrades the connection and serves it until the client goes away.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	var previous string
	if cookie, err := req.Cookie(sessionCookie); err == nil {
		previous = cookie.Value
	}

	sessionID := that.manager.Connect(previous)

	header := http.Header{}
	header.Add("Set-Cookie", (&http.Cookie{
		Name:    sessionCookie,
		Value:   sessionID,
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}).String())

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		that.manager.Disconnect(sessionID)
		return
	}

	client := newClient(conn, sessionID)
	that.register(client)

	log.Info("WebSocket connection established", "client", sessionID)

	go client.writeLoop(that.logger.With("client", sessionID))

	that.handleMessages(req.Context(), client)

	client.close()
	if that.unregister(client) {
		that.manager.Disconnect(client.id)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, client *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendErrorResponse(client, message.Action, fmt.Sprintf("unknown action %q", message.Action))
			continue
		}

		if err := handle(ctx, client, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			that.sendErrorResponse(client, message.Action, err.Error())
		}
	}
}

func (that *Server) register(client *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	that.clients[client.id] = client
}

// unregister reports whether client was still the live connection of its session.
func (that *Server) unregister(client *client) bool {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	if that.clients[client.id] != client {
		return false
	}

	delete(that.clients, client.id)

	return true
}
