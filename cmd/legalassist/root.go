package main

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/legalassist/bootstrap"
	"github.com/kbukum/legalassist/config"
	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "legalassist",
		Short:         "Transcribe, diarize and analyse legal hearings",
		Long:          "legalassist runs hearing recordings through transcription, speaker diarization, legal article retrieval and LLM summarization, and serves the same pipeline over HTTP and MCP.",
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root)

	root.AddCommand(newProcessCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newCorpusCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newHealthCmd())
	root.AddCommand(newMCPCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "path to config.yml (default: searched in ./cmd/legalassist, ./config, .)")
	f.String("env-file", "", "path to a .env file")
	f.String("log-level", "", "override logging.level (debug, info, warn, error)")
	f.StringP("output", "o", "json", "output format: json or text")
}

// loadSettings reads the config files and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	var opts []config.LoaderOption
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		opts = append(opts, config.WithConfigFile(v))
	}
	if v, _ := cmd.Flags().GetString("env-file"); v != "" {
		opts = append(opts, config.WithEnvFile(v))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newApp loads settings, lets mutate adjust them and builds the App. The
// caller owns Shutdown.
func newApp(cmd *cobra.Command, mutate func(*config.Settings)) (*bootstrap.App, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}
	return bootstrap.NewApp(cfg)
}

// withApp runs fn with a fresh App and always shuts it down.
func withApp(cmd *cobra.Command, mutate func(*config.Settings), fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := newApp(cmd, mutate)
	if err != nil {
		return err
	}
	defer shutdown(app)
	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		return fn(ctx, app)
	})
}

func shutdown(app *bootstrap.App) {
	if err := app.Shutdown(context.Background()); err != nil {
		app.Logger.Warn("Shutdown incomplete", logger.ErrorFields("shutdown", err))
	}
}

// exitCode maps error codes to process exit statuses: 2 for bad input,
// 3 for collaborator failures, 1 otherwise.
func exitCode(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		if stderrors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	switch appErr.Code {
	case errors.ErrCodeInput, errors.ErrCodeValidation, errors.ErrCodeInvalidQuery, errors.ErrCodeTooLarge:
		return 2
	case errors.ErrCodeCollaborator, errors.ErrCodeTimeout:
		return 3
	default:
		return 1
	}
}

func describe(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		if stage, ok := appErr.Details["stage"]; ok {
			return fmt.Sprintf("%s [%s, stage %v]", appErr.Error(), appErr.Code, stage)
		}
		return fmt.Sprintf("%s [%s]", appErr.Error(), appErr.Code)
	}
	return err.Error()
}
