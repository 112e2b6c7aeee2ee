package serve

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/relayworks/oneshot/internal/server"
	"github.com/relayworks/oneshot/internal/store"
	"github.com/relayworks/oneshot/util/logging"
)

// Module runs the local content server: a file store, the store
// dispatcher, and the listener.
func Module(config Config) fx.Option {
	return fx.Module(
		"serve",
		// rename logger for module
		logging.DecorateLogger("serve"),
		// provide the file-backed content store
		fx.Provide(func(log *zap.Logger) (store.Store, error) {
			return store.NewFileStore(config.ContentDir, log)
		}),
		// provide dispatcher
		server.StoreModule(),
		// provide server
		server.Module(config.Http),
	)
}
