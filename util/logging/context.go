package logging

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type loggerKey struct{}

var ErrNoLoggerInContext = errors.New("logging: no logger in context")

func ContextWithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func LoggerFromContext(ctx context.Context) (*zap.Logger, error) {
	log, ok := ctx.Value(loggerKey{}).(*zap.Logger)
	if !ok {
		return nil, ErrNoLoggerInContext
	}

	return log, nil
}
