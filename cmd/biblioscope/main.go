// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biblioscope CLI, a command-line
// client for the Elsevier Scopus search API.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biblioscope/internal/config"
	"github.com/pdiddy/biblioscope/internal/logger"
	"github.com/pdiddy/biblioscope/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// v holds settings from flags, environment and the config file.
var v = config.New()

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// rootCmd searches Scopus; subcommands cover history and version.
var rootCmd = &cobra.Command{
	Use:   "biblioscope <query>",
	Short: "Search academic papers via the Elsevier Scopus API",
	Long: `biblioscope sends a single query to the Elsevier Scopus search API and
prints the matching papers with title, first author, journal, year and DOI.

By default the query is passed to Scopus unchanged, so Scopus search syntax
such as TITLE-ABS-KEY(...) AND PUBYEAR > 2020 works. The --doi, --title and
--author flags wrap the query for the common lookups; if several are given,
--doi wins over --title, which wins over --author.

The API key is read from ELSEVIER_API_KEY (a .env file in the working
directory is loaded first), from api_key in the config file, or from
.secrets/elsevier-api-key.`,
	Example: `  biblioscope "machine learning"
  biblioscope "artificial intelligence" --count 20
  biblioscope "deep learning" --title
  biblioscope https://doi.org/10.1007/s00256-024-04692-6 --doi
  biblioscope Smith --author --format table`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biblioscope.yaml or ~/.config/biblioscope/biblioscope.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
}

// setup loads .env, secrets and the config file before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger.Setup(os.Stderr, verbose)

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	s, err := secrets.Load(secrets.DefaultDir)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if names := s.Names(); len(names) > 0 {
		logger.For(cmd.Context()).Debugf("loaded secrets: %v", names)
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	used, err := config.ReadFile(v, cfgFile)
	if err != nil {
		return err
	}
	if used != "" {
		logger.For(cmd.Context()).Debugf("using config file %s", used)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

