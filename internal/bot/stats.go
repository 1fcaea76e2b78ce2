package bot

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")

	movesCounter, _        = meter.Int64Counter("bot.moves", metric.WithDescription("Moves played by the bot"))
	iterationsHistogram, _ = meter.Int64Histogram("bot.search.iterations", metric.WithDescription("Minimax calls per move"))
	durationHistogram, _   = meter.Float64Histogram("bot.move.duration", metric.WithUnit("s"), metric.WithDescription("Time spent choosing a move"))
)

// Stats describes the last move. The values are diagnostics only: Depth is
// the depth of whichever terminal position was scored last, not of the
// chosen line.
type Stats struct {
	Difficulty string        `json:"difficulty"`
	Randomized bool          `json:"randomized"`
	Iterations uint64        `json:"iterations"`
	Depth      int           `json:"depth"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Stats returns the diagnostics of the last MakeMove call.
func (a *Ai) Stats() Stats {
	return Stats{
		Difficulty: a.difficulty.String(),
		Randomized: a.randomized,
		Iterations: a.iterations,
		Depth:      a.depth,
		Elapsed:    a.elapsed,
	}
}

func recordMove(ctx context.Context, span trace.Span, s Stats, move game.Coord) {
	attrs := []attribute.KeyValue{
		attribute.String("bot.difficulty", s.Difficulty),
		attribute.Bool("bot.randomized", s.Randomized),
	}
	span.SetAttributes(append(attrs,
		attribute.Int64("bot.iterations", int64(s.Iterations)),
		attribute.Int("bot.depth", s.Depth),
		attribute.Int("move.x", move.X),
		attribute.Int("move.y", move.Y),
	)...)

	movesCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	iterationsHistogram.Record(ctx, int64(s.Iterations), metric.WithAttributes(attrs...))
	durationHistogram.Record(ctx, s.Elapsed.Seconds(), metric.WithAttributes(attrs...))

	slog.DebugContext(ctx, "bot move",
		"difficulty", s.Difficulty,
		"randomized", s.Randomized,
		"iterations", s.Iterations,
		"depth", s.Depth,
		"elapsed", s.Elapsed,
		"x", move.X,
		"y", move.Y,
	)
}

func recordFailure(ctx context.Context, span trace.Span, a *Ai, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "Bot could not move")
	slog.ErrorContext(ctx, "bot asked to move without a legal move", "difficulty", a.difficulty.String(), "error", err)
}
