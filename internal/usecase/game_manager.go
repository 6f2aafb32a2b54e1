package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const (
	botTurnTimeout  = 5 * time.Second
	botTurnAttempts = 2
)

var errStaleBotTurn = errors.New("stale bot turn")

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	UpdatePlayer(ctx context.Context, player *entity.Player) error
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameService interface {
	CreateGame(ctx context.Context, player *entity.Player) (*entity.Game, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type botService interface {
	MakeTurn(ctx context.Context, game *entity.Game) (int, error)
}

// GameNotifier - receives games changed outside of a player's request,
// i.e. after the delayed bot turn, and bot turns that could not be made.
type GameNotifier interface {
	NotifyGame(ctx context.Context, playerID string, game *entity.Game)
	NotifyError(ctx context.Context, playerID string, err error)
}

// GameManager - owns every game between a human and the bot. Human turns are
// applied synchronously; the bot answers after moveDelay on a timer.
type GameManager struct {
	logger *slog.Logger

	playerService playerService
	gameService   gameService
	botService    botService

	moveDelay time.Duration
	scheduler *turnScheduler
	locks     *gameLocks

	notifiersMu sync.RWMutex
	notifiers   []GameNotifier
}

func NewGameManager(logger *slog.Logger, playerService playerService, gameService gameService, botService botService, moveDelay time.Duration) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerService: playerService,
		gameService:   gameService,
		botService:    botService,

		moveDelay: moveDelay,
		scheduler: newTurnScheduler(),
		locks:     newGameLocks(),
	}
}

// Subscribe - registers a receiver for bot turns.
func (that *GameManager) Subscribe(notifier GameNotifier) {
	that.notifiersMu.Lock()
	defer that.notifiersMu.Unlock()

	that.notifiers = append(that.notifiers, notifier)
}

// Close - cancels all pending bot turns.
func (that *GameManager) Close() {
	that.scheduler.Stop()
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.playerService.CreatePlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerService.GetPlayerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// GetOrCreateGame - returns the player's current game or seats them in a new one.
// A game that expired from storage is replaced.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID != "" {
		game, err := that.gameService.GetGameByID(ctx, player.GameID)
		if err == nil {
			return game, nil
		}

		if !errors.Is(err, apperror.ErrGameNotFound) {
			return nil, fmt.Errorf("failed get game: %w", err)
		}

		that.logger.Info("player game expired, creating a new one", "playerID", player.ID, "gameID", player.GameID)
	}

	game, err := that.gameService.CreateGame(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	that.logger.Info("game created", "playerID", player.ID, "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	return game, nil
}

// MakeTurn - applies the human's turn and schedules the bot's answer.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGame
	}

	unlock := that.locks.Lock(player.GameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	if err = tictactoe.MakeTurn(game, player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	log := that.logger.With("method", "MakeTurn", "gameID", game.ID, "playerID", player.ID)

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
		return game, nil
	}

	if game.IsBotTurn() {
		that.scheduleBotTurn(game.ID, game.Generation, player.ID)
	}

	log.Debug("player made a turn", "cell", cell)

	return game, nil
}

// RestartGame - replaces the board with a fresh one. A bot turn still pending
// for the old board is dropped.
func (that *GameManager) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, apperror.ErrNoActiveGame
	}

	unlock := that.locks.Lock(player.GameID)
	defer unlock()

	that.scheduler.Cancel(player.GameID)

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	game.Reset()

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	that.logger.Info("game restarted", "gameID", game.ID, "generation", game.Generation)

	return game, nil
}

// EndGame - deletes the player's game and frees the player for a new one.
func (that *GameManager) EndGame(ctx context.Context, playerID string) error {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed get player by id: %w", err)
	}

	if player.GameID == "" {
		return apperror.ErrNoActiveGame
	}

	gameID := player.GameID

	unlock := that.locks.Lock(gameID)
	defer unlock()

	that.scheduler.Cancel(gameID)

	if err = that.gameService.DeleteGame(ctx, gameID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		return fmt.Errorf("failed delete game: %w", err)
	}

	player.GameID = ""
	player.Mark = ""
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return fmt.Errorf("failed update player: %w", err)
	}

	that.logger.Info("game deleted", "gameID", gameID, "playerID", playerID)

	return nil
}

func (that *GameManager) scheduleBotTurn(gameID string, generation int, playerID string) {
	that.scheduler.Schedule(gameID, that.moveDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), botTurnTimeout)
		defer cancel()

		that.playBotTurn(ctx, gameID, generation, playerID)
	})
}

// playBotTurn - applies the bot's move unless the game moved on since it was
// scheduled (restarted, finished or no longer the bot's turn). A failed turn
// is retried once; after that subscribers are told the game is stuck.
func (that *GameManager) playBotTurn(ctx context.Context, gameID string, generation int, playerID string) {
	log := that.logger.With("method", "playBotTurn", "gameID", gameID, "generation", generation)

	var (
		game *entity.Game
		err  error
	)

	for attempt := 1; attempt <= botTurnAttempts; attempt++ {
		game, err = that.applyBotTurn(ctx, gameID, generation)
		if err == nil || errors.Is(err, errStaleBotTurn) {
			break
		}

		log.Warn("bot turn failed", "attempt", attempt, "error", err)
	}

	switch {
	case errors.Is(err, errStaleBotTurn):
		log.Info("discarding stale bot turn")
		return
	case err != nil:
		log.Error("giving up on bot turn", "error", err)
		for _, notifier := range that.subscribers() {
			notifier.NotifyError(ctx, playerID, apperror.ErrBotTurnFailed)
		}
		return
	}

	for _, notifier := range that.subscribers() {
		notifier.NotifyGame(ctx, playerID, game.Clone())
	}
}

func (that *GameManager) subscribers() []GameNotifier {
	that.notifiersMu.RLock()
	defer that.notifiersMu.RUnlock()

	return append([]GameNotifier(nil), that.notifiers...)
}

func (that *GameManager) applyBotTurn(ctx context.Context, gameID string, generation int) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		// ended or expired meanwhile
		return nil, errStaleBotTurn
	}

	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	if game.Generation != generation || !game.IsBotTurn() {
		return nil, errStaleBotTurn
	}

	cell, err := that.botService.MakeTurn(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("bot failed to make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save bot turn: %w", err)
	}

	that.logger.Info("bot made a turn", "gameID", gameID, "cell", cell, "winner", game.Winner)

	return game, nil
}
