package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// stackHandler decorates log records that carry an error attribute with the
// stacktrace recorded by cockroachdb/errors, so failed targets can be
// traced from the JSON output alone.
type stackHandler struct {
	next slog.Handler
}

// WithStacktraces wraps next so that any record containing ErrAttrKey gains
// a StacktraceAttrKey attribute when the error carries one.
func WithStacktraces(next slog.Handler) slog.Handler {
	return &stackHandler{next: next}
}

func (h *stackHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *stackHandler) Handle(ctx context.Context, r slog.Record) error {
	var trace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			if details := errors.GetSafeDetails(err).SafeDetails; len(details) > 0 {
				trace = details[0]
			}
		}
		return false
	})
	if trace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, trace))
	}
	return h.next.Handle(ctx, r)
}

func (h *stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stackHandler{next: h.next.WithAttrs(attrs)}
}

func (h *stackHandler) WithGroup(g string) slog.Handler {
	return &stackHandler{next: h.next.WithGroup(g)}
}
