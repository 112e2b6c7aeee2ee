package server

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/jackc/puddle/v2"
	"github.com/relayworks/oneshot/internal/httpmsg"
	"go.uber.org/zap"
)

// DialFunc opens a TCP connection to the upstream address. It exists
// so tests can intercept upstream dialing.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

type ForwardConfig struct {
	// UpstreamHost and UpstreamPort locate the origin server.
	UpstreamHost string `conf:"upstream_host"`
	UpstreamPort int    `conf:"upstream_port"`

	// ReuseUpstream pools upstream connections across exchanges
	// instead of dialing once per client connection.
	ReuseUpstream bool `conf:"reuse_upstream"`

	// MaxUpstream bounds the reuse pool. Ignored unless
	// ReuseUpstream is set; zero means a single pooled connection.
	MaxUpstream int `conf:"max_upstream"`

	// DialTimeout bounds the upstream connect.
	DialTimeout time.Duration `conf:"dial_timeout"`

	// Dial overrides upstream dialing, for tests.
	Dial DialFunc `conf:"-"`
}

// ForwardDispatcher relays every request, whatever its method, to a
// fixed upstream and returns the upstream's response for verbatim
// relay to the client. Upstream failures propagate as dispatch errors
// so the client connection is closed without a synthesized response.
type ForwardDispatcher struct {
	addr string
	dial DialFunc
	pool *puddle.Pool[net.Conn]
	log  *zap.Logger
}

var _ Dispatcher = (*ForwardDispatcher)(nil)

func NewForwardDispatcher(config ForwardConfig, log *zap.Logger) (*ForwardDispatcher, error) {
	addr := net.JoinHostPort(config.UpstreamHost, strconv.Itoa(config.UpstreamPort))

	dial := config.Dial
	if dial == nil {
		dialer := &net.Dialer{Timeout: config.DialTimeout}
		dial = func(ctx context.Context, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp", addr)
		}
	}

	d := &ForwardDispatcher{
		addr: addr,
		dial: dial,
		log:  log.Named("forward"),
	}

	if config.ReuseUpstream {
		maxSize := config.MaxUpstream
		if maxSize <= 0 {
			maxSize = 1
		}

		pool, err := puddle.NewPool(&puddle.Config[net.Conn]{
			Constructor: func(ctx context.Context) (net.Conn, error) {
				return d.dial(ctx, d.addr)
			},
			Destructor: func(conn net.Conn) {
				conn.Close()
			},
			MaxSize: int32(maxSize),
		})
		if err != nil {
			return nil, fmt.Errorf("creating upstream pool: %w", err)
		}

		d.pool = pool
	}

	return d, nil
}

func (d *ForwardDispatcher) Dispatch(ctx context.Context, req *httpmsg.Request) (*httpmsg.Response, error) {
	if d.pool == nil {
		conn, err := d.dial(ctx, d.addr)
		if err != nil {
			return nil, fmt.Errorf("connecting upstream %s: %w", d.addr, err)
		}
		defer conn.Close()

		return d.forward(conn, req)
	}

	resource, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring upstream connection: %w", err)
	}

	resp, err := d.forward(resource.Value(), req)
	if err != nil {
		// a half-used upstream connection cannot be reused
		resource.Destroy()
		return nil, err
	}

	resource.Release()
	return resp, nil
}

// forward writes the re-encoded inbound request and reads one bounded
// chunk of the upstream response.
func (d *ForwardDispatcher) forward(conn net.Conn, req *httpmsg.Request) (*httpmsg.Response, error) {
	d.log.Debug("forwarding request",
		zap.String("method", string(req.Method)),
		zap.String("url", req.URL),
		zap.String("upstream", d.addr),
	)

	if _, err := conn.Write([]byte(req.Encode())); err != nil {
		return nil, fmt.Errorf("writing upstream: %w", err)
	}

	buf := make([]byte, maxRequestBytes)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("reading upstream: %w", err)
	}

	resp, err := httpmsg.DecodeResponse(string(buf[:n]))
	if err != nil {
		return nil, fmt.Errorf("decoding upstream response: %w", err)
	}

	return resp, nil
}

// Close tears down the upstream pool, if any.
func (d *ForwardDispatcher) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}
