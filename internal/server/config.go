package server

import "time"

const (
	// DefaultReadTimeout bounds how long a connection may sit idle
	// before the canned timeout response is sent.
	DefaultReadTimeout = 60 * time.Second

	// DefaultBacklog mirrors the listen backlog of the socket API.
	// Go's listener does not expose the backlog, so the value is
	// advisory and recorded for configuration parity only.
	DefaultBacklog = 5
)

type Config struct {
	// Host is the address to bind to.
	Host string `conf:"host"`

	// Port is the port to bind to.
	Port int `conf:"port"`

	// ReadTimeout is the per-connection wait for request bytes.
	ReadTimeout time.Duration `conf:"read_timeout"`

	// Inline handles connections on the accepting goroutine, one at a
	// time. The default is one goroutine per connection.
	Inline bool `conf:"inline"`

	// MaxConns bounds concurrently live handlers when not inline.
	// Zero means unbounded, which matches the legacy behavior.
	MaxConns int `conf:"max_conns"`

	// Backlog is the advisory listen backlog.
	Backlog int `conf:"backlog"`
}

func (c Config) readTimeout() time.Duration {
	if c.ReadTimeout <= 0 {
		return DefaultReadTimeout
	}
	return c.ReadTimeout
}

func (c Config) backlog() int {
	if c.Backlog <= 0 {
		return DefaultBacklog
	}
	return c.Backlog
}
