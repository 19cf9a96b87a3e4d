package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a request-scoped logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts the request-scoped logger.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ForRun tags logger with the job name and a fresh run id, so every line of
// one rebuild or repair invocation can be grouped. The run id is returned too.
func ForRun(logger *zap.Logger, job string) (*zap.Logger, string) {
	id := uuid.NewString()
	return logger.With(zap.String("job", job), zap.String("run_id", id)), id
}
