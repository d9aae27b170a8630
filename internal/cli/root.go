package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archlinux/arch-repro-status/internal/inspect"
	"github.com/archlinux/arch-repro-status/internal/models"
	"github.com/archlinux/arch-repro-status/internal/utils"
)

// Version is set at build time
var Version = "dev"

const (
	appName              = "arch-repro-status"
	defaultRebuilderdURL = "https://reproducible.archlinux.org"
	defaultDBPath        = "/var/lib/pacman"
	defaultPager         = "less"
	defaultTimeout       = 30 * time.Second
)

var defaultRepos = []string{"core", "extra", "community", "multilib"}

// NewRootCmd creates the root command. log receives every diagnostic and summary line.
func NewRootCmd(log *logrus.Logger) *cobra.Command {
	var config models.Config

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Check the reproducibility status of Arch Linux packages",
		Long: `arch-repro-status cross-references packages with the rebuilderd instance
of Arch Linux and reports which of them are reproducible.

Packages are taken from the archlinux.org package search when a maintainer
is given, and from the local pacman database otherwise.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			setupLogger(log, config.Quiet, config.Verbosity)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfig(&config); err != nil {
				return err
			}

			log.Debugf("Configuration: %+v", config)

			return runStatus(cmd.Context(), cmd.OutOrStdout(), &config, log)
		},
	}

	flags := rootCmd.Flags()

	// Logging flags
	flags.BoolVarP(&config.Quiet, "quiet", "q", false, "Disable logging")
	flags.CountVarP(&config.Verbosity, "verbose", "v", "Increase logging verbosity")
	flags.CountVar(&config.Verbosity, "debug", "Increase logging verbosity")
	_ = flags.MarkHidden("debug")

	// Package source flags
	flags.BoolVarP(&config.All, "all", "a", false, "Check all installed packages")
	flags.StringVarP(&config.Maintainer, "maintainer", "m", envOr("MAINTAINER", ""), "Maintainer whose packages are checked [$MAINTAINER]")
	flags.StringVarP(&config.DBPath, "dbpath", "b", envOr("DBPATH", defaultDBPath), "Pacman database path [$DBPATH]")
	flags.StringSliceVar(&config.Repos, "repos", envList("REPOS", defaultRepos), "Repositories to query [$REPOS]")
	flags.StringVar(&config.Keyring, "keyring", envOr("KEYRING", ""), "OpenPGP keyring used to verify sync database signatures [$KEYRING]")
	rootCmd.MarkFlagsMutuallyExclusive("all", "maintainer")

	// Service flags
	flags.StringVarP(&config.RebuilderdURL, "rebuilderd", "r", envOr("REBUILDERD", defaultRebuilderdURL), "Rebuilderd instance [$REBUILDERD]")
	flags.StringVar(&config.ArchwebURL, "archweb", envOr("ARCHWEB", models.ArchwebURL), "Arch Linux website [$ARCHWEB]")
	flags.DurationVar(&config.Timeout, "timeout", defaultTimeout, "Per-request timeout")

	// Presentation flags
	flags.StringVarP(&config.FilterName, "filter", "f", envOr("FILTER", ""), "Only show packages with the given status (GOOD, BAD, UNKWN) [$FILTER]")

	// Inspection flags
	flags.BoolVarP(&config.Inspect, "inspect", "i", false, "Inspect build logs, diffoscopes and package info interactively")
	flags.StringVarP(&config.Pager, "pager", "p", envOr("PAGER", defaultPager), "Pager, \""+inspect.BuiltinPager+"\" for the embedded viewer [$PAGER]")
	flags.StringVarP(&config.CacheDir, "cache-dir", "c", envOr("CACHE_DIR", ""), "Log cache directory [$CACHE_DIR]")

	return rootCmd
}

func setupLogger(log *logrus.Logger, quiet bool, verbosity int) {
	if quiet {
		log.SetOutput(io.Discard)
		return
	}

	switch {
	case verbosity >= 2:
		log.SetLevel(logrus.TraceLevel)
	case verbosity == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

func validateConfig(config *models.Config) error {
	// --all wins over a maintainer coming from the environment
	if config.All {
		config.Maintainer = ""
	}
	config.Maintainer = strings.TrimSpace(config.Maintainer)

	config.RebuilderdURL = strings.TrimRight(strings.TrimSpace(config.RebuilderdURL), "/")
	if config.RebuilderdURL == "" {
		return invalidConfig(fmt.Errorf("rebuilderd URL is required"))
	}

	config.ArchwebURL = strings.TrimRight(strings.TrimSpace(config.ArchwebURL), "/")
	if !config.IsLocal() && config.ArchwebURL == "" {
		return invalidConfig(fmt.Errorf("archweb URL is required"))
	}

	if config.IsLocal() && config.DBPath == "" {
		return invalidConfig(fmt.Errorf("dbpath is required"))
	}

	if config.Timeout <= 0 {
		return invalidConfig(fmt.Errorf("timeout must be positive, got %s", config.Timeout))
	}

	config.Filter = nil
	if config.FilterName != "" {
		status, err := models.ParseStatus(config.FilterName)
		if err != nil {
			return invalidConfig(err)
		}
		config.Filter = &status
	}

	if config.Inspect {
		if strings.TrimSpace(config.Pager) == "" {
			config.Pager = defaultPager
		}
		if config.CacheDir == "" {
			dir, err := utils.DefaultCacheDir(appName)
			if err != nil {
				return invalidConfig(err)
			}
			config.CacheDir = dir
		}
	}

	if config.UserAgent == "" {
		config.UserAgent = appName + "/" + Version
	}

	return nil
}

func invalidConfig(err error) error {
	return &models.ReproStatusError{
		Type: models.ErrInvalidConfig,
		Err:  err,
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	value := envOr(key, "")
	if value == "" {
		return fallback
	}

	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}
