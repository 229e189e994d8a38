package cmd

import (
	"log/slog"
	"os"

	"github.com/refdex/refdex/internal/cache"
	"github.com/refdex/refdex/internal/config"
	"github.com/refdex/refdex/internal/index"
	"github.com/refdex/refdex/internal/pipeline"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "refdex",
	Short: "refdex indexes API reference documents and generates doc headers",
	Long: "Indexes structured API reference documents and emits C headers that\n" +
		"embed the documentation as escaped string literals.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig string
	flagSource string
	flagDest   string
	flagMkdirs bool
	flagSuffix string
	flagCache  string
)

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		newLogger().Error("command failed", "error", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to a YAML config file")
	pf.StringVar(&flagSource, "source", "", "directory of reference documents")
	pf.StringVar(&flagDest, "dest", "", "destination directory for headers")
	pf.BoolVar(&flagMkdirs, "mkdirs", false, "create the destination tree when missing")
	pf.StringVar(&flagSuffix, "suffix", "", "filename suffix before the .h extension")
	pf.StringVar(&flagCache, "cache", "", "path to the incremental build cache")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// loadConfig resolves configuration: YAML file (when given) over the
// environment, with command-line flags taking final precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = config.Load()
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceDir = flagSource
	}
	if flags.Changed("dest") {
		cfg.Dest = flagDest
	}
	if flags.Changed("mkdirs") {
		cfg.MakeDirs = flagMkdirs
	}
	if flags.Changed("suffix") {
		cfg.FilenameSuffix = flagSuffix
	}
	if flags.Changed("cache") {
		cfg.CachePath = flagCache
	}
	return cfg, cfg.Validate()
}

// newDriver wires the registry, optional cache and pipeline driver.
// The returned closer releases the cache when one was opened.
func newDriver(cfg config.Config, log *slog.Logger) (*pipeline.Driver, func(), error) {
	var store *cache.Store
	closer := func() {}
	if cfg.CachePath != "" {
		var err error
		store, err = cache.Open(cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		closer = func() { store.Close() }
	}
	reg := index.NewRegistry()
	return pipeline.New(cfg, reg, store, log), closer, nil
}
