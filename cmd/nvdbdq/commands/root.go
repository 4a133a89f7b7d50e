package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/nvdbdq/internal/external/nvdb"
	"github.com/wonny/nvdbdq/internal/pipeline"
	"github.com/wonny/nvdbdq/pkg/config"
	"github.com/wonny/nvdbdq/pkg/httputil"
	"github.com/wonny/nvdbdq/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nvdbdq",
	Short: "NVDB data-quality explorer",
	Long: `NVDB data-quality explorer

Fetches road objects of one type from the Norwegian road database (NVDB),
flattens them into a table and measures how completely each object fills
the properties its type declares.

Usage:
  go run ./cmd/nvdbdq [command]

Examples:
  go run ./cmd/nvdbdq analyze 79
  go run ./cmd/nvdbdq analyze 79 -i PÅKREVD_ABSOLUTT -n 300 --export kulvert.xlsx
  go run ./cmd/nvdbdq schema 79
  go run ./cmd/nvdbdq serve --port 8089`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "❌ %s\n", UserMessage(err))
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// app holds the wired components every command needs
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	client   *nvdb.Client
	explorer *pipeline.Explorer
}

// newApp loads configuration and wires the NVDB client and the explorer
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	client := nvdb.NewClient(cfg, httputil.New(cfg, log), log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		explorer: pipeline.NewExplorer(client, cfg, log),
	}, nil
}
