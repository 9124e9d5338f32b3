package commands

import (
	"crm-forecast-mcp/internal/config"
	"crm-forecast-mcp/internal/dealstore"
	"crm-forecast-mcp/internal/logging"
	"crm-forecast-mcp/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	store *dealstore.Store
)

var rootCmd = &cobra.Command{
	Use:   "crm-forecast-mcp",
	Short: "crm-forecast-mcp is an Opportunity Scoring and Sales Forecasting MCP Server",
	Long: `A specialized MCP Server that scores sales opportunities (weighted multi-factor scoring,
priority and risk classification) and produces period-bucketed revenue forecasts with
confidence bands from a local deal store.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		// Warm the deal store from disk
		store = dealstore.NewStore()
		if err := store.Load(cfg.DataPath, cfg.DealSource); err != nil {
			log.Warn().Err(err).Str("source", cfg.DealSource).Msg("Failed to load deal store")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Int("deals", store.Count(cfg.DealSource)).
			Msg("crm-forecast-mcp starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(cfg, store)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("Stdio loop terminated")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
