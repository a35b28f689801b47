package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/config"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/server"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			mutate := func(cfg *config.Settings) {
				if host != "" {
					cfg.Server.Host = host
				}
				if port != 0 {
					cfg.Server.Port = port
				}
			}

			app, err := newApp(cmd, mutate)
			if err != nil {
				return err
			}
			defer shutdown(app)
			return serve(cmd.Context(), app)
		},
	}
	c.Flags().String("host", "", "override server.host")
	c.Flags().Int("port", 0, "override server.port")
	return c
}

func serve(ctx context.Context, app *bootstrap.App) error {
	pipe, err := app.Pipeline(ctx)
	if err != nil {
		return err
	}
	index, err := app.Index(ctx)
	if err != nil {
		return err
	}
	reports, err := app.Reports()
	if err != nil {
		return err
	}

	cfg := app.Cfg
	srv := server.New(cfg.Server, app.Logger)
	api, err := server.NewAPI(cfg.Name, cfg.Server, server.APIDependencies{
		Pipeline:    pipe,
		Search:      index,
		Reports:     reports,
		Probe:       app.Probe,
		Metrics:     app.Metrics,
		MetricsPath: cfg.Observability.MetricsPath,
		Events:      app.Events(),
	}, app.Logger)
	if err != nil {
		return err
	}
	api.Register(srv)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	app.OnStop("http", srv.Stop)

	app.WaitForSignal(ctx)
	app.Logger.Info("Stopping", logger.Fields("addr", srv.Addr()))
	return nil
}
