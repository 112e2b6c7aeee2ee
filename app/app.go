package app

import (
	"github.com/relayworks/oneshot/config"
	"github.com/relayworks/oneshot/internal/shell"
	"github.com/relayworks/oneshot/util/conf"
	"github.com/relayworks/oneshot/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
)

// New assembles the application shell from the logger and config the
// cli layer injected into the context.
func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
	)

	return shell.New(log, sharedModule), nil
}
