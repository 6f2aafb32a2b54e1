package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/service"
)

var errStorageIsFull = errors.New("storage is full")

type memGameRepo struct {
	mu      sync.Mutex
	games   map[string]*entity.Game
	failSet bool
}

func newMemGameRepo() *memGameRepo {
	return &memGameRepo{games: make(map[string]*entity.Game)}
}

func (that *memGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.failSet {
		return errStorageIsFull
	}

	that.games[game.ID] = game.Clone()
	return nil
}

func (that *memGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return &entity.Game{}, apperror.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (that *memGameRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}
	delete(that.games, id)
	return nil
}

func (that *memGameRepo) setFailSet(fail bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.failSet = fail
}

type memPlayerRepo struct {
	mu      sync.Mutex
	players map[string]entity.Player
}

func newMemPlayerRepo() *memPlayerRepo {
	return &memPlayerRepo{players: make(map[string]entity.Player)}
}

func (that *memPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.ID] = *player
	return nil
}

func (that *memPlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return &entity.Player{}, apperror.ErrPlayerNotFound
	}
	return &player, nil
}

type chanNotifier struct {
	games  chan *entity.Game
	errors chan error
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{
		games:  make(chan *entity.Game, 8),
		errors: make(chan error, 8),
	}
}

func (that *chanNotifier) NotifyGame(_ context.Context, _ string, game *entity.Game) {
	that.games <- game
}

func (that *chanNotifier) NotifyError(_ context.Context, _ string, err error) {
	that.errors <- err
}

func (that *chanNotifier) wait(t *testing.T) *entity.Game {
	t.Helper()

	select {
	case game := <-that.games:
		return game
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not make a turn in time")
		return nil
	}
}

var errBotIsBroken = errors.New("bot is broken")

type brokenBot struct {
	mu    sync.Mutex
	calls int
}

func (that *brokenBot) MakeTurn(context.Context, *entity.Game) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.calls++
	return -1, errBotIsBroken
}

func (that *brokenBot) callCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.calls
}

type fixture struct {
	manager  *GameManager
	games    *memGameRepo
	players  *memPlayerRepo
	notifier *chanNotifier
}

func newFixture(t *testing.T, moveDelay time.Duration) *fixture {
	t.Helper()

	games, players := newMemGameRepo(), newMemPlayerRepo()

	bot, err := service.NewBotService(2)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewGameManager(logger, service.NewPlayerService(players), service.NewGameService(games), bot, moveDelay)
	t.Cleanup(manager.Close)

	notifier := newChanNotifier()
	manager.Subscribe(notifier)

	return &fixture{
		manager:  manager,
		games:    games,
		players:  players,
		notifier: notifier,
	}
}

// seat - creates a player with a game and returns both.
func (that *fixture) seat(t *testing.T) (*entity.Player, *entity.Game) {
	t.Helper()

	ctx := context.Background()

	player, err := that.manager.GetOrCreatePlayer(ctx, "")
	require.NoError(t, err)

	game, err := that.manager.GetOrCreateGame(ctx, player.ID)
	require.NoError(t, err)

	return player, game
}

// storeBoard - overwrites the stored board of the game.
func (that *fixture) storeBoard(t *testing.T, gameID string, board entity.Board, turn string) {
	t.Helper()

	game, err := that.games.GetByID(context.Background(), gameID)
	require.NoError(t, err)

	game.Board = board
	game.Turn = turn
	require.NoError(t, that.games.CreateOrUpdate(context.Background(), game))
}

func (that *fixture) storedGame(t *testing.T, gameID string) *entity.Game {
	t.Helper()

	game, err := that.games.GetByID(context.Background(), gameID)
	require.NoError(t, err)

	return game
}
