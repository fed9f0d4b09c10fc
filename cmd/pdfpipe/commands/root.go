// Package commands implements the pdfpipe command line.
package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/pdfpipe/config"
	"github.com/tsawler/pdfpipe/internal/logging"
	"github.com/tsawler/pdfpipe/storage"
)

// app holds what every subcommand needs once the configuration is loaded.
type app struct {
	cfgFile string
	envFile string
	verbose bool

	cfg      *config.Config
	log      zerolog.Logger
	provider storage.Provider
	closer   func() error
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pdfpipe",
		Short: "Convert PDF documents into reading-order text lines",
		Long: `pdfpipe walks a PDF document page by page, groups the positioned text of
each page into blocks and the blocks into lines in reading order. Documents are
read from and written to the configured storage: a local directory or Redis.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(cmd) },
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "environment file loaded before the config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLinesCommand(a),
		newExtractCommand(a),
		newInfoCommand(a),
		newListCommand(a),
	)
	for _, c := range root.Commands() {
		c.RunE = a.withTeardown(c.RunE)
	}
	return root
}

// withTeardown releases storage after run returns, whether or not it failed.
// cobra skips post-run hooks when RunE fails.
func (a *app) withTeardown(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, a.teardown())
		}()
		return run(cmd, args)
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// setup loads the environment file and configuration, then opens storage.
func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	a.log = logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		Service: "pdfpipe",
	})

	provider, closer, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	a.provider = provider
	a.closer = closer
	a.log.Debug().Str("driver", cfg.Storage.Driver).Msg("storage ready")
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

// openStorage creates the provider named by the configuration.
func openStorage(cfg config.StorageConfig) (storage.Provider, func() error, error) {
	switch cfg.Driver {
	case "redis":
		r, err := storage.NewRedis(storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	default:
		return storage.NewLocal(cfg.Local.Root), nil, nil
	}
}
