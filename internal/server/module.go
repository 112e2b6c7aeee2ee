package server

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires a lifecycle-managed server for the given config. The
// enclosing app must provide a Dispatcher.
func Module(config Config) fx.Option {
	return fx.Module("server",
		// provide config
		fx.Supply(config),
		// provide server
		fx.Provide(NewLifecycleServer),
		// invoke server
		fx.Invoke(func(*Server) {}),
	)
}

// StoreModule provides the content-store dispatcher.
func StoreModule() fx.Option {
	return fx.Module("dispatch",
		fx.Provide(
			fx.Annotate(NewStoreDispatcher, fx.As(new(Dispatcher))),
		),
	)
}

// ForwardModule provides the forwarding dispatcher, closing its
// upstream pool on shutdown.
func ForwardModule(config ForwardConfig) fx.Option {
	return fx.Module("forward",
		fx.Supply(config),
		fx.Provide(
			fx.Annotate(newLifecycleForwardDispatcher, fx.As(new(Dispatcher))),
		),
	)
}

func newLifecycleForwardDispatcher(config ForwardConfig, log *zap.Logger, lc fx.Lifecycle) (*ForwardDispatcher, error) {
	dispatcher, err := NewForwardDispatcher(config, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			dispatcher.Close()
			return nil
		},
	})

	return dispatcher, nil
}
