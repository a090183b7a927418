package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andresuchdata/fullstock/internal/app"
	"github.com/andresuchdata/fullstock/internal/config"
	"github.com/andresuchdata/fullstock/pkg/logger"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

type cfgKey struct{}

func loadConfig(c *cli.Context) error {
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	if c.Bool("debug") {
		logger.SetLevel("debug")
	}
	c.Context = context.WithValue(c.Context, cfgKey{}, cfg)
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.Context.Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Load()
}

func newApp(c *cli.Context) (*app.App, error) {
	cfg := configFrom(c)
	if c.IsSet("workers") {
		cfg.Report.Workers = c.Int("workers")
	}
	return app.New(c.Context, cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "fullstock",
		Usage: "Classify marketplace full-report extracts and plan replenishment across companies",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{"FULLSTOCK_DEBUG"},
			},
		},
		// extract paths may contain commas
		DisableSliceFlagSeparator: true,
		Before:                    loadConfig,
		Commands: []*cli.Command{
			{
				Name:   "process",
				Usage:  "Process company extracts and write the consolidated workbook",
				Flags:  processFlags(),
				Action: runProcess,
			},
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					return a.Serve(c.Context)
				},
			},
			{
				Name:  "companies",
				Usage: "List the configured companies",
				Action: func(c *cli.Context) error {
					for _, name := range app.Companies(configFrom(c).Report.Companies) {
						fmt.Fprintln(c.App.Writer, name)
					}
					return nil
				},
			},
			{
				Name:  "exports",
				Usage: "List workbooks uploaded to object storage",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					objects, err := a.Service.ListExports(c.Context)
					if err != nil {
						return err
					}
					for _, o := range objects {
						fmt.Fprintf(c.App.Writer, "%s\t%d\n", o.Key, o.Size)
					}
					return nil
				},
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("fullstock failed")
		os.Exit(1)
	}
}
