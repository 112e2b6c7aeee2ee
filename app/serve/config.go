package serve

import "github.com/relayworks/oneshot/internal/server"

type Config struct {
	// Http is the listener configuration.
	Http server.Config `conf:",squash"`

	// ContentDir is the directory the content store serves from.
	ContentDir string `conf:"content_dir"`
}
