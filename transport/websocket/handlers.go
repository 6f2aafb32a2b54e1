package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

var errNotConnected = errors.New("send connect first")

// clientErrors - errors whose text is safe to show to the player.
var clientErrors = []error{
	apperror.ErrPlayerNotFound,
	apperror.ErrGameNotFound,
	apperror.ErrNoActiveGame,
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrBotTurnFailed,
	errNotConnected,
}

func errorMessage(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}

// sendError - reports a failed action to the client. Only a broken connection
// is returned to the caller.
func (that *Server) sendError(c *client, action string, err error) error {
	that.logger.Debug("action failed", "action", action, "playerID", c.playerID, "error", err)

	if sendErr := c.send(action, Payload{Error: errorMessage(err)}); sendErr != nil {
		return fmt.Errorf("failed to send error response: %w", sendErr)
	}

	return nil
}

// handleConnect - binds the connection to a player, creating one when the
// payload carries no player ID. A player already in a game gets it back.
func (that *Server) handleConnect(ctx context.Context, c *client, payload Payload) error {
	log := that.logger.With("method", "handleConnect")

	var playerID string
	if payload.Player != nil {
		playerID = payload.Player.ID
	}

	player, err := that.manager.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return that.sendError(c, actionConnect, err)
	}

	that.connectionsMutex.Lock()
	if c.playerID != "" && c.playerID != player.ID && that.connections[c.playerID] == c {
		// the socket switched players
		delete(that.connections, c.playerID)
	}
	if previous, ok := that.connections[player.ID]; ok && previous != c {
		// the newest tab wins
		_ = previous.conn.Close()
	}
	that.connections[player.ID] = c
	that.connectionsMutex.Unlock()

	c.playerID = player.ID

	resp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.manager.GetGameByPlayerID(ctx, player.ID)
		switch {
		case err == nil:
			resp.Game = game
		case errors.Is(err, apperror.ErrGameNotFound):
			log.Info("player game expired", "playerID", player.ID)
		default:
			return that.sendError(c, actionConnect, err)
		}
	}

	if err = c.send(actionConnect, resp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, c *client, _ Payload) error {
	if c.playerID == "" {
		return that.sendError(c, actionGameNew, errNotConnected)
	}

	game, err := that.manager.GetOrCreateGame(ctx, c.playerID)
	if err != nil {
		return that.sendError(c, actionGameNew, err)
	}

	return that.sendGame(c, actionGameNew, game)
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, payload Payload) error {
	if c.playerID == "" {
		return that.sendError(c, actionGameTurn, errNotConnected)
	}

	if payload.Cell == nil {
		return that.sendError(c, actionGameTurn, apperror.ErrInvalidCell)
	}

	game, err := that.manager.MakeTurn(ctx, c.playerID, *payload.Cell)
	if err != nil {
		return that.sendError(c, actionGameTurn, err)
	}

	return that.sendGame(c, actionGameTurn, game)
}

func (that *Server) handleRestart(ctx context.Context, c *client, _ Payload) error {
	if c.playerID == "" {
		return that.sendError(c, actionGameRestart, errNotConnected)
	}

	game, err := that.manager.RestartGame(ctx, c.playerID)
	if err != nil {
		return that.sendError(c, actionGameRestart, err)
	}

	return that.sendGame(c, actionGameRestart, game)
}

// handleEndGame - deletes the game; the answer carries the freed player.
func (that *Server) handleEndGame(ctx context.Context, c *client, _ Payload) error {
	if c.playerID == "" {
		return that.sendError(c, actionGameEnd, errNotConnected)
	}

	if err := that.manager.EndGame(ctx, c.playerID); err != nil {
		return that.sendError(c, actionGameEnd, err)
	}

	if err := c.send(actionGameEnd, Payload{Player: &entity.Player{ID: c.playerID}}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendGame(c *client, action string, game *entity.Game) error {
	if err := c.send(action, Payload{Game: game}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}
