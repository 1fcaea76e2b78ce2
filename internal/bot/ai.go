package bot

import (
	"context"
	"ctchen222/Tic-Tac-Toe-AI/internal/game"
	"errors"
	"math/rand/v2"
	"time"
)

// ErrNoLegalMove is returned when the bot is asked to move on a full board.
// Callers are expected to check IsFull and HasWon first.
var ErrNoLegalMove = errors.New("no legal move available")

const (
	scoreWin  = 1
	scoreLoss = -1
	scoreDraw = 0

	// Sentinels strictly outside the score range.
	minSentinel = -2
	maxSentinel = 2
)

// Ai plays O against a human X. It borrows the board for the duration of a
// move and must not be shared between goroutines.
type Ai struct {
	difficulty         Difficulty
	optimalProbability float64
	rng                *rand.Rand

	iterations uint64
	depth      int
	elapsed    time.Duration
	randomized bool
}

// Option configures an Ai.
type Option func(*Ai)

// WithRand sets the random source used for coin flips and random moves.
func WithRand(r *rand.Rand) Option {
	return func(a *Ai) {
		a.rng = r
	}
}

// WithOptimalProbability overrides the chance of playing the searched move
// instead of a random one. Values are clamped to [0, 1].
func WithOptimalProbability(p float64) Option {
	return func(a *Ai) {
		a.optimalProbability = min(max(p, 0), 1)
	}
}

// New creates a new Ai for the given difficulty.
func New(difficulty Difficulty, opts ...Option) *Ai {
	a := &Ai{
		difficulty:         difficulty,
		optimalProbability: difficulty.optimalProbability(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a
}

// Difficulty returns the configured difficulty.
func (a *Ai) Difficulty() Difficulty {
	return a.difficulty
}

// MakeMove picks a move for O according to the difficulty, commits it to b
// and returns it.
func (a *Ai) MakeMove(ctx context.Context, b *game.Board) (game.Coord, error) {
	ctx, span := tracer.Start(ctx, "bot.MakeMove")
	defer span.End()

	start := time.Now()
	a.iterations = 0
	a.depth = 0

	var (
		move game.Coord
		err  error
	)
	a.randomized = !a.playOptimal()
	if a.randomized {
		move, err = a.makeMoveRand(b)
	} else {
		move, err = a.makeMoveMinimax(b)
	}
	a.elapsed = time.Since(start)

	if err != nil {
		recordFailure(ctx, span, a, err)
		return game.Coord{}, err
	}
	recordMove(ctx, span, a.Stats(), move)
	return move, nil
}

func (a *Ai) playOptimal() bool {
	switch {
	case a.optimalProbability >= 1:
		return true
	case a.optimalProbability <= 0:
		return false
	default:
		return a.rng.Float64() < a.optimalProbability
	}
}

// makeMoveRand commits O on a uniformly chosen free cell.
func (a *Ai) makeMoveRand(b *game.Board) (game.Coord, error) {
	free := b.GetFree()
	if len(free) == 0 {
		return game.Coord{}, ErrNoLegalMove
	}
	move := free[a.rng.IntN(len(free))]
	b.MakeMove(move.X, move.Y, game.Computer)
	return move, nil
}

// makeMoveMinimax commits the best scoring move for O. An immediate win is
// taken first; otherwise ties go to the first move in GetFree order.
func (a *Ai) makeMoveMinimax(b *game.Board) (game.Coord, error) {
	free := b.GetFree()
	if len(free) == 0 {
		return game.Coord{}, ErrNoLegalMove
	}

	if move, ok := findWinningMove(b, game.Computer); ok {
		b.MakeMove(move.X, move.Y, game.Computer)
		return move, nil
	}

	bestScore := minSentinel
	var next game.Coord
	for _, c := range free {
		if score := a.try(b, c, game.Computer, 0, false); score > bestScore {
			bestScore = score
			next = c
		}
	}

	b.MakeMove(next.X, next.Y, game.Computer)
	return next, nil
}

// Minimax scores b for O: +1 when O wins, -1 when X wins and 0 for a draw,
// assuming both sides play perfectly from here. The board is restored
// before returning.
func (a *Ai) Minimax(b *game.Board, depth int, maximizing bool) int {
	a.iterations++

	switch b.HasWon() {
	case game.O:
		a.depth = depth
		return scoreWin
	case game.X:
		a.depth = depth
		return scoreLoss
	}
	if b.IsFull() {
		a.depth = depth
		return scoreDraw
	}

	if maximizing {
		best := minSentinel
		for _, c := range b.GetFree() {
			best = max(best, a.try(b, c, game.O, depth+1, false))
		}
		return best
	}

	best := maxSentinel
	for _, c := range b.GetFree() {
		best = min(best, a.try(b, c, game.X, depth+1, true))
	}
	return best
}

// try places mark at c, scores the position and frees c again.
func (a *Ai) try(b *game.Board, c game.Coord, mark game.Cell, depth int, maximizing bool) int {
	b.Set(c.X, c.Y, mark)
	defer b.Set(c.X, c.Y, game.Free)
	return a.Minimax(b, depth, maximizing)
}
