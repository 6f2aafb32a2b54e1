package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

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

type Server struct {
	logger *slog.Logger

	manager    gameManager
	depthLimit int

	engine     *gin.Engine
	httpServer *http.Server
}

// New - builds the HTTP API listening on port. depthLimit is used by the board
// endpoints when a request does not carry its own.
func New(logger *slog.Logger, manager gameManager, depthLimit int, port string) *Server {
	server := &Server{
		logger:     logger.With("component", "rest"),
		manager:    manager,
		depthLimit: depthLimit,
		engine:     gin.New(),
	}

	server.engine.Use(gin.Recovery(), server.logRequests())
	server.routes()

	server.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      server.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	return server
}

func (that *Server) routes() {
	that.engine.GET("/ping", that.ping)

	api := that.engine.Group("/api")

	api.POST("/players", that.createPlayer)

	game := api.Group("/players/:id/game")
	game.GET("", that.getGame)
	game.POST("", that.newGame)
	game.POST("/turn", that.makeTurn)
	game.POST("/restart", that.restartGame)
	game.DELETE("", that.endGame)

	board := api.Group("/board")
	board.POST("/outcome", that.evaluateOutcome)
	board.POST("/best-move", that.bestMove)
}

func (that *Server) Handler() http.Handler {
	return that.engine
}

// Start - starts HTTP server. Returns nil after Shutdown, also when Shutdown
// came first.
func (that *Server) Start() error {
	if err := that.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		that.logger.Debug("request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(started),
		)
	}
}
