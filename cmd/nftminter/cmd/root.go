package cmd

import (
	"fmt"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-ai-nft-minter/internal/api"
	"go-ai-nft-minter/internal/config"
	"go-ai-nft-minter/internal/models"
)

// cfgFile holds the path to the config file specified by the user
var cfgFile string

// logLevel and logFormat configure logrus ("text" or "json")
var logLevel string
var logFormat string

// logApiFlag holds the value of the --log-api flag
var logApiFlag bool

// apiTimeoutFlag holds the value of the --api-timeout flag
var apiTimeoutFlag int

// globalConfig holds the loaded configuration
var globalConfig models.Config

// globalHttpTransport holds the globally configured HTTP transport (base or logging-wrapped)
var globalHttpTransport http.RoundTripper

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nftminter",
	Short: "Generate an image from a description and mint it as an NFT",
	Long: `nftminter turns a text description into an AI generated image, pins it
to IPFS and mints an ERC-721 token whose URI points at the pinned metadata.`,
	PersistentPreRunE: loadGlobalConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	closeTransport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Logging format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&logApiFlag, "log-api", false, "Log API requests/responses to the API log file (overrides config)")
	rootCmd.PersistentFlags().IntVar(&apiTimeoutFlag, "api-timeout", -1, "Timeout for API HTTP client in seconds (overrides config, -1 uses config default)")
}

// initLogging configures logrus based on persistent flags
func initLogging() {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithError(err).Warnf("Invalid log level '%s', using default 'info'", logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch logFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		log.Warnf("Invalid log format '%s', using default 'text'", logFormat)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// loadGlobalConfig loads the configuration, applies flag overrides and sets
// up the global HTTP transport.
func loadGlobalConfig(cmd *cobra.Command, args []string) error {
	initLogging()

	var err error
	globalConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-api") {
		globalConfig.LogApiRequests = logApiFlag
		log.Debugf("Overriding LogApiRequests based on --log-api flag: %t", logApiFlag)
	}

	if cmd.Flags().Changed("api-timeout") {
		if apiTimeoutFlag >= 0 {
			globalConfig.ApiClientTimeoutSec = apiTimeoutFlag
			log.Debugf("Overriding ApiClientTimeoutSec based on --api-timeout flag: %d sec", apiTimeoutFlag)
		} else {
			log.Warnf("--api-timeout flag provided with invalid value %d, using config value: %d sec", apiTimeoutFlag, globalConfig.ApiClientTimeoutSec)
		}
	}

	closeTransport()
	globalHttpTransport = http.DefaultTransport
	if globalConfig.LogApiRequests {
		log.Infof("API logging to file: %s", globalConfig.ApiLogPath)
		loggingTransport, err := api.NewLoggingTransport(http.DefaultTransport, globalConfig.ApiLogPath)
		if err != nil {
			log.WithError(err).Error("Failed to initialize API logging transport, logging disabled.")
		} else {
			globalHttpTransport = loggingTransport
		}
	}
	return nil
}

// closeTransport flushes the API log file if logging was enabled.
func closeTransport() {
	loggingTransport, ok := globalHttpTransport.(*api.LoggingTransport)
	if !ok || loggingTransport == nil {
		return
	}
	log.Debug("Closing API logging transport file.")
	if err := loggingTransport.Close(); err != nil {
		log.WithError(err).Error("Error closing API log file")
	}
	globalHttpTransport = nil
}
