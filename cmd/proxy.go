package cmd

import (
	"github.com/relayworks/oneshot/app"
	"github.com/relayworks/oneshot/app/proxy"
	"github.com/relayworks/oneshot/internal/server"
	"github.com/urfave/cli/v2"
)

var (
	proxyCmdDescription = `The proxy command binds a TCP endpoint and relays every
	request to a fixed upstream origin server, passing the
	upstream's response back to the client verbatim. Like the
	serve command, each client connection carries exactly one
	exchange.

	By default a fresh upstream connection is dialed per client
	connection; --reuse-upstream pools upstream connections
	instead.`
	proxyCmd = &cli.Command{
		Name:        "proxy",
		Usage:       "Forward requests to an upstream origin server.",
		Description: proxyCmdDescription,
		Action:      proxyAction,
		Flags: append(httpFlags(),
			&cli.StringFlag{
				Name:     "upstream-host",
				Usage:    "The origin server host to forward to.",
				Value:    "localhost",
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_HOST"},
			},
			&cli.IntFlag{
				Name:     "upstream-port",
				Usage:    "The origin server port to forward to.",
				Value:    80,
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_PORT"},
			},
			&cli.BoolFlag{
				Name:     "reuse-upstream",
				Usage:    "Pool upstream connections across exchanges.",
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_REUSE"},
			},
			&cli.IntFlag{
				Name:     "max-upstream",
				Usage:    "Bound the upstream connection pool.",
				Value:    1,
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_MAX"},
			},
		),
	}
)

func proxyAction(ctx *cli.Context) error {
	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	proxyConfig := proxy.Config{
		Http: httpConfig(ctx),
		Forward: server.ForwardConfig{
			UpstreamHost:  ctx.String("upstream-host"),
			UpstreamPort:  ctx.Int("upstream-port"),
			ReuseUpstream: ctx.Bool("reuse-upstream"),
			MaxUpstream:   ctx.Int("max-upstream"),
			DialTimeout:   ctx.Duration("timeout"),
		},
	}

	return app.Run(ctx.Context, proxy.Module(proxyConfig))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, proxyCmd)
}
