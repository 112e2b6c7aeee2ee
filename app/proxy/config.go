package proxy

import "github.com/relayworks/oneshot/internal/server"

type Config struct {
	// Http is the listener configuration.
	Http server.Config `conf:",squash"`

	// Forward locates the upstream origin server.
	Forward server.ForwardConfig `conf:",squash"`
}
