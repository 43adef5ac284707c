package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrebq/greeter/config"
	"github.com/andrebq/greeter/installers"
	"github.com/andrebq/greeter/pkg/logging"
	"github.com/andrebq/greeter/pkg/probe"
	"github.com/andrebq/greeter/server"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	app := newApp()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func newApp() *cli.App {
	var logLevel string = "info"

	app := cli.NewApp()
	app.Name = "greeter"
	app.Usage = "A backend service that answers GET / with a greeting"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Minimum level to log (debug, info, warn, error)",
			Destination: &logLevel,
			Value:       logLevel,
			EnvVars:     []string{"LOG_LEVEL"},
		},
	}
	app.Before = func(ctx *cli.Context) error {
		if err := logging.Setup(ctx.App.Writer, ctx.App.ErrWriter, logLevel); err != nil {
			return err
		}
		gin.SetMode(gin.ReleaseMode)
		return nil
	}
	app.Commands = []*cli.Command{
		serveCmd(),
		checkCmd(),
		manifestCmd(),
	}
	return app
}

func serveCmd() *cli.Command {
	var bindAddr string
	var port string
	var configFile string
	var accessLog bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the greeting server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "address",
				Usage:       "Address to bind the server, empty binds every interface",
				Destination: &bindAddr,
				EnvVars:     []string{"BIND_ADDR"},
			},
			&cli.StringFlag{
				Name:        "port",
				Usage:       "Port to bind the server (default 3000)",
				Destination: &port,
				EnvVars:     []string{config.EnvPort},
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Optional YAML file with server settings",
				Destination: &configFile,
				EnvVars:     []string{"GREETER_CONFIG"},
			},
			&cli.BoolFlag{
				Name:        "access-log",
				Usage:       "Write an NCSA access log line per request to stdout",
				Destination: &accessLog,
				EnvVars:     []string{"ACCESS_LOG"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.Load(configFile, port)
			if err != nil {
				return err
			}
			if ctx.IsSet("address") {
				cfg.Address = bindAddr
			}
			if ctx.IsSet("access-log") {
				cfg.AccessLog = accessLog
			}
			return server.Run(ctx.Context, cfg)
		},
	}
}

func checkCmd() *cli.Command {
	var addr string = "http://127.0.0.1:3000"
	var retries int = 0
	var timeout time.Duration = 2 * time.Second
	return &cli.Command{
		Name:  "check",
		Usage: "Request GET / on a running server and fail unless it returns the greeting",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Server base URL (including scheme and port)",
				Destination: &addr,
				Value:       addr,
			},
			&cli.IntFlag{
				Name:        "retries",
				Usage:       "Extra attempts on connection errors and 5xx responses",
				Destination: &retries,
				Value:       retries,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Timeout for each attempt",
				Destination: &timeout,
				Value:       timeout,
			},
		},
		Action: func(ctx *cli.Context) error {
			return probe.Check(ctx.Context, addr, probe.Options{Retries: retries, Timeout: timeout})
		},
	}
}

func manifestCmd() *cli.Command {
	var m installers.Manifest
	var templateFile string
	m.Port = config.DefaultPort
	return &cli.Command{
		Name:  "manifest",
		Usage: "Print a Kubernetes Deployment and Service for the server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "Deployment and Service name",
				Destination: &m.Name,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "image",
				Usage:       "Container image running greeter",
				Destination: &m.Image,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "namespace",
				Usage:       "Target namespace",
				Destination: &m.Namespace,
				Value:       "default",
			},
			&cli.IntFlag{
				Name:        "port",
				Usage:       "Container port, passed to the server as PORT",
				Destination: &m.Port,
				Value:       m.Port,
			},
			&cli.IntFlag{
				Name:        "replicas",
				Destination: &m.Replicas,
				Value:       1,
			},
			&cli.StringFlag{
				Name:        "template",
				Usage:       "Template file to render instead of the built-in one, - reads stdin",
				Destination: &templateFile,
			},
		},
		Action: func(ctx *cli.Context) error {
			return installers.K8S(ctx.Context, ctx.App.Writer, templateFile, m)
		},
	}
}
