// Package bootstrap turns loaded Settings into a running legalassist
// process: it initializes the logger, metrics and tracing, resolves the
// collaborator providers from their registries, opens storage and the run
// ledger, and owns shutdown.
//
//	cfg, _ := config.Load()
//	app, err := bootstrap.NewApp(cfg)
//	defer app.Shutdown(context.Background())
//	pipe, err := app.Pipeline(ctx)
package bootstrap
