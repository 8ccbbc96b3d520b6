package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"transitctl/pkg/cache"
	"transitctl/pkg/config"
	"transitctl/pkg/logging"
	"transitctl/pkg/transit"

	"github.com/spf13/cobra"
)

var (
	appCfg     *config.AppConfig
	client     *transit.Client
	logger     *slog.Logger
	placeCache *cache.Places
	jsonOut    bool
	noCache    bool
)

var rootCmd = &cobra.Command{
	Use:   "transitctl",
	Short: "A CLI and TUI for public transport departures and journeys",
	Long: `transitctl talks to hafas-rest-api deployments such as v6.db.transport.rest
to search stops, show live departure boards and plan journeys.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

// setup loads .env, the config file and the environment, then builds the
// logger and the API client shared by all commands.
func setup(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	logCfg, err := config.LoggingFromEnv()
	if err != nil {
		return err
	}
	logger = logging.New(os.Stderr, logCfg, "transitctl")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	appCfg = cfg

	opts, err := cfg.ClientOptions(logger)
	if err != nil {
		return err
	}
	client, err = transit.NewClient(opts)
	if err != nil {
		return err
	}

	if !noCache {
		if placeCache, err = cache.Default(); err != nil {
			logger.Warn("location cache disabled", "error", err)
		}
	}

	logger.Debug("client ready", "endpoint", client.Endpoint(), "encoding", client.TimeEncoding().String())
	return nil
}

// applyFlags lets explicit command line flags win over file and env values.
func applyFlags(cmd *cobra.Command, cfg *config.AppConfig) error {
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("encoding") {
		enc, _ := flags.GetString("encoding")
		if _, err := transit.ParseTimeEncoding(enc); err != nil {
			return err
		}
		cfg.TimeEncoding = enc
	}
	if flags.Changed("identifier") {
		cfg.Identifier, _ = flags.GetString("identifier")
	}
	if flags.Changed("strict") {
		cfg.StrictValidation, _ = flags.GetBool("strict")
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("endpoint", "", "hafas-rest-api base URL (default "+transit.DefaultEndpoint+")")
	flags.String("encoding", "", "timestamp encoding of the API: iso8601, unix or unix-ms")
	flags.String("identifier", "", "value sent as X-Identifier")
	flags.Bool("strict", false, "range check coordinates and counts before sending")
	flags.String("env-file", ".env", "file with environment variables to load")
	flags.BoolVar(&jsonOut, "json", false, "print results as JSON")
	flags.BoolVar(&noCache, "no-cache", false, "do not reuse cached location searches")
}
