// Package cmd wires the parchment CLI commands.
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/parchment/internal/config"
	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/tracing"
)

var (
	version  = "dev"
	cfgFile  string
	debug    bool
	cfg      config.Config
	cleanups []func()
)

var rootCmd = &cobra.Command{
	Use:     "parchment",
	Short:   "Registry and run snapshots for versioned governance documents",
	Long: `Parchment scans repository document trees for front-matter versioned
governance documents, builds a validated registry artifact, and captures
per-run policy snapshots with an append-only ledger.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/parchment/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to .parchment/parchment.log")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("repo_root", defaults.RepoRoot)
	viper.SetDefault("doc_roots", defaults.DocRoots)
	viper.SetDefault("doc_extension", defaults.DocExtension)
	viper.SetDefault("registry_output", defaults.RegistryOutput)
	viper.SetDefault("runs_dir", defaults.RunsDir)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .parchment/config.yaml (current directory)
		// 2. ~/.config/parchment/config.yaml (user config)
		if _, err := os.Stat(".parchment/config.yaml"); err == nil {
			viper.SetConfigFile(".parchment/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "parchment"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .parchment/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".parchment/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func initLogging() {
	if !debug && os.Getenv("PARCHMENT_DEBUG") == "" {
		return
	}
	cleanup, err := log.Init(filepath.Join(".parchment", "parchment.log"))
	if err != nil {
		return
	}
	cleanups = append(cleanups, cleanup)
	log.SetMinLevel(log.LevelDebug)
	log.Info(log.CatConfig, "debug logging enabled", "version", version)
}

// configFilePath returns the config file in use, defaulting to the
// local project path when none was loaded.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".parchment/config.yaml"
}

// startTracing builds the trace provider from config and returns it with
// a flush function. Tracing failures never block the command itself.
func startTracing() (*tracing.Provider, func()) {
	tcfg := cfg.Tracing
	if tcfg.Enabled && tcfg.Exporter == "file" && tcfg.FilePath == "" {
		tcfg.FilePath = config.DefaultTracesFilePath()
	}

	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		log.ErrorErr(log.CatTrace, "failed to start tracing, continuing without", err)
		provider, _ = tracing.NewProvider(tracing.Config{})
	}

	return provider, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "trace flush failed", err)
		}
	}
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	for _, cleanup := range cleanups {
		cleanup()
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
