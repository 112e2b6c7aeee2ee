package proxy

import (
	"go.uber.org/fx"

	"github.com/relayworks/oneshot/internal/server"
	"github.com/relayworks/oneshot/util/logging"
)

// Module runs the forwarding proxy: the same listener, with every
// request relayed to the configured upstream.
func Module(config Config) fx.Option {
	return fx.Module(
		"proxy",
		// rename logger for module
		logging.DecorateLogger("proxy"),
		// provide dispatcher
		server.ForwardModule(config.Forward),
		// provide server
		server.Module(config.Http),
	)
}
