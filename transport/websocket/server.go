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

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mathemix/trivia-backend/internal/service"
)

type coordinator interface {
	CreateRoom(ctx context.Context, connectionID, nickname string) (*service.Outcome, error)
	JoinRoom(ctx context.Context, connectionID, roomCode, nickname string) (*service.Outcome, error)
	StartGame(ctx context.Context, connectionID, roomCode, category string) (*service.Outcome, error)
	NextRound(ctx context.Context, connectionID, roomCode string) (*service.Outcome, error)
	SubmitAnswer(ctx context.Context, connectionID, roomCode, answer string) (*service.Outcome, error)
	Disconnect(ctx context.Context, connectionID string) (*service.Outcome, error)
}

// client is one upgraded connection. Writes are serialized through the
// mutex because notifications for a connection may come from any handler.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (that *client) send(message Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	upgrader    websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	handlers map[string]func(ctx context.Context, sender *client, payload json.RawMessage) error
}

func New(logger *slog.Logger, coord coordinator, allowedOrigin string) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		coordinator: coord,
		connections: make(map[string]*client),
		handlers:    make(map[string]func(context.Context, *client, json.RawMessage) error),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(allowedOrigin, r.Header.Get("Origin"))
		},
	}

	server.handlers["createRoom"] = server.handleCreateRoom
	server.handlers["joinRoom"] = server.handleJoinRoom
	server.handlers["startGame"] = server.handleStartGame
	server.handlers["nextRound"] = server.handleNextRound
	server.handlers["submitAnswer"] = server.handleSubmitAnswer

	return server
}

// Start - starts the WebSocket server and shuts it down on context cancel.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  0, // connections are long-lived
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP upgrades the connection, assigns it an ephemeral id and runs
// its read loop until the peer goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sender := &client{
		id:   uuid.NewString(),
		conn: conn,
	}

	that.connectionsMutex.Lock()
	that.connections[sender.id] = sender
	that.connectionsMutex.Unlock()

	log.Info("connection established", "connectionID", sender.id)

	that.readLoop(req.Context(), sender)
}

// readLoop processes inbound messages until the connection drops, then
// feeds the loss into the coordinator as a disconnect event.
func (that *Server) readLoop(ctx context.Context, sender *client) {
	log := that.logger.With("method", "readLoop", "connectionID", sender.id)

	defer func() {
		that.connectionsMutex.Lock()
		delete(that.connections, sender.id)
		that.connectionsMutex.Unlock()

		_ = sender.conn.Close()

		outcome, err := that.coordinator.Disconnect(context.Background(), sender.id)
		if err != nil {
			log.Error("failed to handle disconnect", "error", err)
			return
		}

		that.deliver(outcome)
		log.Info("connection closed")
	}()

	for {
		var message Message
		if err := sender.conn.ReadJSON(&message); err != nil {
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		if err := handler(ctx, sender, message.Payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// deliver fans a coordinator outcome out to its addressed connections.
func (that *Server) deliver(outcome *service.Outcome) {
	log := that.logger.With("method", "deliver")

	for _, notification := range outcome.Notifications {
		raw, err := json.Marshal(notification.Payload)
		if err != nil {
			log.Error("failed to marshal payload", "event", notification.Event, "error", err)
			continue
		}

		message := Message{Action: notification.Event, Payload: raw}

		for _, connectionID := range notification.ConnectionIDs {
			that.connectionsMutex.RLock()
			receiver, ok := that.connections[connectionID]
			that.connectionsMutex.RUnlock()

			if !ok {
				log.Warn("connection not found", "connectionID", connectionID)
				continue
			}

			if err = receiver.send(message); err != nil {
				log.Error("failed to send notification", "event", notification.Event, "error", err)
			}
		}
	}
}

func (that *Server) sendError(sender *client, cause error) error {
	raw, err := json.Marshal(clientMessage(cause))
	if err != nil {
		return fmt.Errorf("failed to marshal error payload: %w", err)
	}

	if err = sender.send(Message{Action: service.EventError, Payload: raw}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// originAllowed permits every origin when no allow-list is configured,
// otherwise requires an exact match.
func originAllowed(allowed, origin string) bool {
	if allowed == "" || origin == "" {
		return true
	}

	return origin == allowed
}
