// Package cli implements the cazy-helper command tree.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dabane-ghassan/cazy-little-helper/internal/config"
	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/internal/metrics"
	"github.com/dabane-ghassan/cazy-little-helper/internal/retrieval"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// appKey is the context key for App.
type appKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	DBPath     string
	MetricsOut string
}

// Deps replaces the external services. Nil fields are built from the
// configuration.
type Deps struct {
	Translator ids.Translator
	FullText   retrieval.FullTextSource
	Abstracts  retrieval.AbstractSource
}

// App carries initialized dependencies through the command tree.
type App struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *metrics.Metrics
	deps    Deps
}

// NewRootCommand creates the root command with its global flags and
// subcommands. deps may be nil.
func NewRootCommand(deps *Deps) *cobra.Command {
	opts := &RootOptions{}
	if deps == nil {
		deps = &Deps{}
	}

	cmd := &cobra.Command{
		Use:   "cazy-helper",
		Short: "CAZy's little helper, the biocuration assistant of the CAZy database",
		Long: "cazy-helper takes a CSV file of article identifiers, retrieves the articles\n" +
			"and scores how likely each one is to be relevant to CAZy curation.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, *deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.DBPath, "db", "", "SQLite run store path; enables run history and the translation cache")
	pf.StringVar(&opts.MetricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")

	cmd.AddCommand(
		newPredictCmd(),
		newFindCmd(),
		newCreateCmd(),
		newHistoryCmd(),
	)
	for _, sub := range cmd.Commands() {
		finishOnExit(sub)
	}
	return cmd
}

// finishOnExit makes the command flush the logger and write metrics
// whether RunE succeeds or not. Cobra skips post-run hooks on failure.
func finishOnExit(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if ferr := finish(cmd); ferr != nil {
				err = errors.Join(err, ferr)
			}
		}()
		return run(cmd, args)
	}
}

// persistentPreRun loads config and logger, then stores the App.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Deps) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.DBPath != "" {
		cfg.Store.Path = opts.DBPath
	}
	if opts.MetricsOut != "" {
		cfg.Metrics.OutPath = opts.MetricsOut
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger.Named(cmd.Name()),
		Metrics: metrics.New(),
		deps:    deps,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
	return nil
}

func finish(cmd *cobra.Command) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	// stderr cannot always be synced; nothing to do about it
	_ = app.Logger.Sync()

	if path := app.Config.Metrics.OutPath; path != "" {
		if err := app.Metrics.WriteFile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// GetApp extracts the App from a command's context.
func GetApp(cmd *cobra.Command) (*App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("command context is nil")
	}
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, errors.New("application not initialized")
	}
	return app, nil
}

// Execute runs the command tree and prints any error to stderr.
func Execute(ctx context.Context) error {
	root := NewRootCommand(nil)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}
