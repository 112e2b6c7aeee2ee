package conf

import (
	"context"
	"errors"
)

type configKey struct{}

var (
	ErrNoConfigInContext    = errors.New("conf: no config in context")
	ErrWrongConfigInContext = errors.New("conf: unexpected config type in context")
)

func ContextWithConfig[C any](ctx context.Context, config C) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

func GetConfigFromContext[C any](ctx context.Context) (C, error) {
	var zero C

	v := ctx.Value(configKey{})
	if v == nil {
		return zero, ErrNoConfigInContext
	}

	config, ok := v.(C)
	if !ok {
		return zero, ErrWrongConfigInContext
	}

	return config, nil
}
