package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "ctchen222/Tic-Tac-Toe-AI"

// FanoutHandler is a slog.Handler that dispatches records to several handlers.
type FanoutHandler struct {
	handlers []slog.Handler
}

func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

// Enabled reports whether any underlying handler handles the level.
func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a copy of r to every enabled handler. A failing handler does
// not keep the others from receiving the record.
func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return NewFanoutHandler(next...)
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return NewFanoutHandler(next...)
}

// New builds a logger writing text records to w and, when withOtel is set,
// to the OpenTelemetry log bridge.
func New(w io.Writer, level slog.Level, withOtel bool) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		}),
	}
	if withOtel {
		handlers = append(handlers, otelslog.NewHandler(instrumentationName))
	}
	return slog.New(NewFanoutHandler(handlers...))
}

// Init installs the console (and optionally OpenTelemetry) logger as the
// slog default.
func Init(level slog.Level, withOtel bool) {
	slog.SetDefault(New(os.Stdout, level, withOtel))
}
