package cmd

import (
	"github.com/relayworks/oneshot/app"
	"github.com/relayworks/oneshot/app/serve"
	"github.com/relayworks/oneshot/config"
	"github.com/relayworks/oneshot/internal/server"
	"github.com/relayworks/oneshot/util/conf"
	"github.com/urfave/cli/v2"
)

var (
	serveCmdDescription = `The serve command binds a TCP endpoint and answers HTTP/1.1
	requests from a file-backed content store. Each accepted
	connection carries exactly one request/response exchange and
	is then closed.

	Connections are handled on one goroutine per connection by
	default; --inline handles them sequentially on the accepting
	goroutine instead.`
	serveCmd = &cli.Command{
		Name:        "serve",
		Usage:       "Serve content from a directory over HTTP/1.1.",
		Description: serveCmdDescription,
		Action:      serveAction,
		Flags:       httpFlags(),
	}
)

// httpFlags is shared between serve and proxy.
func httpFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "host",
			Aliases:  []string{"H"},
			Usage:    "The host to listen on.",
			Value:    "localhost",
			Category: "http",
			EnvVars:  []string{"HTTP_HOST"},
		},
		&cli.IntFlag{
			Name:     "port",
			Aliases:  []string{"P"},
			Usage:    "The port to listen on.",
			Value:    8080,
			Category: "http",
			EnvVars:  []string{"HTTP_PORT"},
		},
		&cli.DurationFlag{
			Name:     "timeout",
			Aliases:  []string{"t"},
			Usage:    "How long to wait for request bytes before answering 408.",
			Value:    server.DefaultReadTimeout,
			Category: "http",
			EnvVars:  []string{"HTTP_TIMEOUT"},
		},
		&cli.BoolFlag{
			Name:     "inline",
			Usage:    "Handle connections sequentially on the accept loop.",
			Category: "http",
			EnvVars:  []string{"HTTP_INLINE"},
		},
		&cli.IntFlag{
			Name:     "max-conns",
			Usage:    "Bound concurrently handled connections. 0 means unbounded.",
			Category: "http",
			EnvVars:  []string{"HTTP_MAX_CONNS"},
		},
		&cli.StringFlag{
			Name:     "content-dir",
			Aliases:  []string{"C"},
			Usage:    "The directory to serve content from.",
			Category: "content",
			EnvVars:  []string{"CONTENT_DIR"},
		},
	}
}

func httpConfig(ctx *cli.Context) server.Config {
	return server.Config{
		Host:        ctx.String("host"),
		Port:        ctx.Int("port"),
		ReadTimeout: ctx.Duration("timeout"),
		Inline:      ctx.Bool("inline"),
		MaxConns:    ctx.Int("max-conns"),
		Backlog:     server.DefaultBacklog,
	}
}

// contentDir prefers the flag, then the layered config.
func contentDir(ctx *cli.Context) string {
	if dir := ctx.String("content-dir"); dir != "" {
		return dir
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return "./content"
	}

	return cfg.ContentDir
}

func serveAction(ctx *cli.Context) error {
	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	serveConfig := serve.Config{
		Http:       httpConfig(ctx),
		ContentDir: contentDir(ctx),
	}

	return app.Run(ctx.Context, serve.Module(serveConfig))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, serveCmd)
}
