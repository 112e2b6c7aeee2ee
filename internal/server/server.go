package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type ServerParams struct {
	fx.In

	Context context.Context

	Config Config

	Dispatcher Dispatcher
	Logger     *zap.Logger
}

// Server binds one host:port endpoint and runs the accept loop,
// handing each connection to a Handler either inline or on its own
// goroutine.
type Server struct {
	ctx     context.Context
	config  Config
	handler *Handler
	sem     *semaphore.Weighted
	log     *zap.Logger

	mu       sync.Mutex
	listener net.Listener
}

func NewServer(params ServerParams) *Server {
	log := params.Logger.Named("server")

	var sem *semaphore.Weighted
	if !params.Config.Inline && params.Config.MaxConns > 0 {
		sem = semaphore.NewWeighted(int64(params.Config.MaxConns))
	}

	return &Server{
		ctx:     params.Context,
		config:  params.Config,
		handler: NewHandler(params.Dispatcher, params.Config.readTimeout(), log),
		sem:     sem,
		log:     log,
	}
}

func NewLifecycleServer(params ServerParams, lc fx.Lifecycle) *Server {
	server := NewServer(params)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go server.Serve(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
	return server
}

// Serve binds the endpoint and accepts until the listener is closed.
// A failed connection never stops the loop; only a closed listener
// does. There is no in-flight drain on stop, closing the listening
// socket is the whole shutdown.
func (s *Server) Serve(context.Context) error {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	cfg := net.ListenConfig{}

	listener, err := cfg.Listen(
		ctx,
		"tcp",
		fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
	)
	if err != nil {
		s.log.With(zap.Error(err)).Error("failed to listen")
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info("listening",
		zap.String("address", listener.Addr().String()),
		zap.Bool("inline", s.config.Inline),
		zap.Int("max_conns", s.config.MaxConns),
		// the backlog is advisory, the OS default applies
		zap.Int("backlog", s.config.backlog()),
	)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}

		if s.config.Inline {
			// the next accept waits until this connection is closed
			s.handler.Handle(ctx, conn)
			continue
		}

		if s.sem != nil {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				conn.Close()
				return err
			}
		}

		go func() {
			defer s.release()
			s.handler.Handle(ctx, conn)
		}()
	}
}

func (s *Server) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

// Addr returns the bound address once Serve has bound it, nil before.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown closes the listening socket, ending the accept loop.
func (s *Server) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	if err := s.listener.Close(); err != nil {
		s.log.With(zap.Error(err)).Error("failed to close listener")
		return err
	}

	return nil
}
