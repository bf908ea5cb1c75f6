package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor derives one attribute from a record's context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// RequestIDExtractor logs the id returned by get, typically chi's
// middleware.GetReqID, as "request_id".
func RequestIDExtractor(get func(context.Context) string) ContextExtractor {
	return stringExtractor(get, RequestID)
}

// ViewerExtractor logs the authenticated caller, typically from
// jwt.EmailFromContext, as a masked "viewer" attribute.
func ViewerExtractor(get func(context.Context) string) ContextExtractor {
	return stringExtractor(get, func(addr string) slog.Attr {
		return slog.String("viewer", MaskEmail(addr))
	})
}

func stringExtractor(get func(context.Context) string, attr func(string) slog.Attr) ContextExtractor {
	if get == nil {
		return nil
	}
	return func(ctx context.Context) (slog.Attr, bool) {
		v := get(ctx)
		if v == "" {
			return slog.Attr{}, false
		}
		return attr(v), true
	}
}

// contextHandler appends extractor attributes to every record it handles.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func withContext(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	var kept []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &contextHandler{Handler: next, extractors: kept}
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
