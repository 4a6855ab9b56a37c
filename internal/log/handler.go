package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// MaxValueLength is the longest string value logged verbatim.
const MaxValueLength = 512

// MaskValue is the string used to replace credentials.
const MaskValue = "***REDACTED***"

// markupKeys are attribute keys whose values are page markup.
var markupKeys = map[string]bool{
	"markup":   true,
	"html":     true,
	"fragment": true,
	"body":     true,
}

// sensitiveKeys are attribute keys whose values are credentials.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"password":            true,
	"proxy_password":      true,
	"token":               true,
}

// Handler wraps an slog.Handler and rewrites attributes before they reach
// it: markup and overlong strings are elided and credentials are masked.
type Handler struct {
	// handler receives the rewritten records.
	handler slog.Handler

	// maxLen is the longest string value passed through unchanged.
	maxLen int
}

// NewHandler creates a Handler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewHandler(handler slog.Handler) *Handler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &Handler{handler: handler, maxLen: MaxValueLength}
}

// Enabled reports whether the underlying handler handles records at level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it on.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes rewritten and added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &Handler{handler: h.handler.WithAttrs(rewritten), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// rewriteAttr rewrites a single attribute, recursing into groups.
func (h *Handler) rewriteAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if key == "proxy" {
		return slog.String(a.Key, maskUserinfo(value))
	}
	if markupKeys[key] || len(value) > h.maxLen {
		return slog.String(a.Key, elided(len(value)))
	}

	return a
}

// elided returns the marker that replaces a value of n bytes.
func elided(n int) string {
	return fmt.Sprintf("<%d bytes elided>", n)
}

// maskUserinfo masks the password of a "user:pass@host:port" address.
func maskUserinfo(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return addr
	}
	user, _, hasPass := strings.Cut(addr[:at], ":")
	if !hasPass {
		return addr
	}
	return user + ":" + MaskValue + addr[at:]
}

// newLevelOptions returns handler options for the verbosity setting.
func newLevelOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// NewLogger creates a text logger writing to w.
// verbose selects Debug level; otherwise only warnings and errors are logged.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewHandler(slog.NewTextHandler(w, newLevelOptions(verbose))))
}

// NewJSONLogger creates a JSON logger writing to w.
// verbose selects Debug level; otherwise only warnings and errors are logged.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewHandler(slog.NewJSONHandler(w, newLevelOptions(verbose))))
}
