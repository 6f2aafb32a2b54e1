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

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

type gameManager interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetOrCreateGame(ctx context.Context, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	EndGame(ctx context.Context, playerID string) error
}

type handlerFunc func(ctx context.Context, c *client, payload Payload) error

type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	httpServer *http.Server
}

func New(logger *slog.Logger, manager gameManager, port string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		connections: make(map[string]*client),
	}

	server.handlers = map[string]handlerFunc{
		actionConnect:     server.handleConnect,
		actionGameNew:     server.handleNewGame,
		actionGameTurn:    server.handleGameTurn,
		actionGameRestart: server.handleRestart,
		actionGameEnd:     server.handleEndGame,
	}

	server.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server. Returns nil after Shutdown, also when
// Shutdown came first.
func (that *Server) Start() error {
	if err := that.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown - stops accepting connections and closes the open ones.
func (that *Server) Shutdown(ctx context.Context) error {
	that.connectionsMutex.Lock()
	for playerID, c := range that.connections {
		_ = c.conn.Close()
		delete(that.connections, playerID)
	}
	that.connectionsMutex.Unlock()

	if err := that.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// NotifyGame - pushes a game changed by the bot to the player's connection.
func (that *Server) NotifyGame(_ context.Context, playerID string, game *entity.Game) {
	log := that.logger.With("method", "NotifyGame", "playerID", playerID, "gameID", game.ID)

	that.connectionsMutex.RLock()
	c, ok := that.connections[playerID]
	that.connectionsMutex.RUnlock()

	if !ok {
		log.Debug("player is not connected")
		return
	}

	if err := c.send(actionGameUpdate, Payload{Game: game}); err != nil {
		log.Error("failed to send game update", "error", err)
	}
}

// NotifyError - tells the player their bot turn could not be made.
func (that *Server) NotifyError(_ context.Context, playerID string, err error) {
	log := that.logger.With("method", "NotifyError", "playerID", playerID)

	that.connectionsMutex.RLock()
	c, ok := that.connections[playerID]
	that.connectionsMutex.RUnlock()

	if !ok {
		log.Debug("player is not connected")
		return
	}

	if sendErr := c.send(actionGameUpdate, Payload{Error: errorMessage(err)}); sendErr != nil {
		log.Error("failed to send bot failure", "error", sendErr)
	}
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	defer that.disconnect(c)

	log.Info("WebSocket connection established")

	that.handleMessages(req.Context(), c)
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}

			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				_ = c.send("", Payload{Error: "malformed message"})
				continue
			}

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			_ = c.send(message.Action, Payload{Error: "unknown action"})
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err := json.Unmarshal(message.Payload, &payload); err != nil {
				_ = c.send(message.Action, Payload{Error: "malformed payload"})
				continue
			}
		}

		if err := handler(ctx, c, payload); err != nil {
			log.Error("failed to handle message", "action", message.Action, "error", err)
			return
		}
	}
}

func (that *Server) disconnect(c *client) {
	that.connectionsMutex.Lock()
	if c.playerID != "" && that.connections[c.playerID] == c {
		delete(that.connections, c.playerID)
	}
	that.connectionsMutex.Unlock()

	_ = c.conn.Close()
}
