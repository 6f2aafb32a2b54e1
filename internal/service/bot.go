package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const instrumentationName = "github.com/rocketscienceinc/tictactoe-bot/internal/service"

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	// MakeTurn - searches for the best cell and places the bot's marker there.
	MakeTurn(ctx context.Context, game *entity.Game) (int, error)
}

type botService struct {
	depthLimit int

	tracer     trace.Tracer
	moves      metric.Int64Counter
	searchTime metric.Float64Histogram
}

func NewBotService(depthLimit int) (BotService, error) {
	meter := otel.Meter(instrumentationName)

	moves, err := meter.Int64Counter("bot.moves",
		metric.WithDescription("Moves played by the minimax bot"))
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}

	searchTime, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent selecting a move"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create search histogram: %w", err)
	}

	return &botService{
		depthLimit: depthLimit,
		tracer:     otel.Tracer(instrumentationName),
		moves:      moves,
		searchTime: searchTime,
	}, nil
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (int, error) {
	ctx, span := that.tracer.Start(ctx, "bot.MakeTurn", trace.WithAttributes(
		attribute.String("game.id", game.ID),
		attribute.Int("bot.depth_limit", that.depthLimit),
	))
	defer span.End()

	started := time.Now()
	cell, err := tictactoe.SelectBestMove(game.Board[:], that.depthLimit)
	that.searchTime.Record(ctx, float64(time.Since(started).Microseconds())/1000)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "move selection failed")
		return tictactoe.NoMove, fmt.Errorf("failed to select move: %w", err)
	}

	if cell == tictactoe.NoMove {
		span.SetStatus(codes.Error, ErrNoAvailableMoves.Error())
		return tictactoe.NoMove, ErrNoAvailableMoves
	}

	if err = tictactoe.MakeTurn(game, tictactoe.ComputerMark, cell); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bot turn rejected")
		return tictactoe.NoMove, fmt.Errorf("bot failed to make turn: %w", err)
	}

	span.SetAttributes(attribute.Int("bot.cell", cell), attribute.String("game.winner", game.Winner))
	that.moves.Add(ctx, 1, metric.WithAttributes(attribute.Int("bot.depth_limit", that.depthLimit)))

	return cell, nil
}
