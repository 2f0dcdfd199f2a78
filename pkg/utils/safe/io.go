package safe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/secmon-lab/sirico/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it.
// A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// EncodeJSON writes v as JSON to w. The response status has usually been sent
// already, so an encode failure can only be logged.
func EncodeJSON(ctx context.Context, w io.Writer, v any) {
	if w == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("Failed to encode JSON", slog.Any("error", err))
	}
}
