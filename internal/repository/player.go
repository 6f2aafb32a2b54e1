package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const playerKeyPrefix = "player:"

var ErrEmptyPlayerID = errors.New("player id is empty")

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

// dbPlayer - player sessions expire after ttl of inactivity: every read
// pushes the expiry forward, so a returning player keeps their ID.
type dbPlayer struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlayerRepository - a zero ttl keeps sessions forever.
func NewPlayerRepository(client *redis.Client, ttl time.Duration) PlayerRepository {
	return &dbPlayer{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	if player.ID == "" {
		return ErrEmptyPlayerID
	}

	data, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err = that.client.Set(ctx, playerKeyPrefix+player.ID, data, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save player %s: %w", player.ID, err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	data, err := that.read(ctx, playerKeyPrefix+id)
	switch {
	case errors.Is(err, redis.Nil):
		return &entity.Player{}, apperror.ErrPlayerNotFound
	case err != nil:
		return &entity.Player{}, fmt.Errorf("failed to load player %s: %w", id, err)
	}

	player := &entity.Player{}
	if err = json.Unmarshal(data, player); err != nil {
		return &entity.Player{}, fmt.Errorf("failed to unmarshal player %s: %w", id, err)
	}

	return player, nil
}

func (that *dbPlayer) read(ctx context.Context, key string) ([]byte, error) {
	if that.ttl <= 0 {
		return that.client.Get(ctx, key).Bytes()
	}

	return that.client.GetEx(ctx, key, that.ttl).Bytes()
}
