package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"go-ai-nft-minter/internal/models" // Import models for the Config struct

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus" // Use logrus
)

// envOverrides maps environment variables onto config fields. Later entries
// win, so the plain names override the browser-era REACT_APP_ names.
var envOverrides = []struct {
	name  string
	apply func(cfg *models.Config, value string) error
}{
	{"REACT_APP_OPENAI_API_KEY", func(c *models.Config, v string) error { c.OpenAIApiKey = v; return nil }},
	{"REACT_APP_JWT", func(c *models.Config, v string) error { c.PinataJWT = v; return nil }},
	{"REACT_APP_CONTRACT_ADDRESS", func(c *models.Config, v string) error { c.ContractAddress = v; return nil }},
	{"OPENAI_API_KEY", func(c *models.Config, v string) error { c.OpenAIApiKey = v; return nil }},
	{"PINATA_JWT", func(c *models.Config, v string) error { c.PinataJWT = v; return nil }},
	{"CONTRACT_ADDRESS", func(c *models.Config, v string) error { c.ContractAddress = v; return nil }},
	{"ETH_RPC_URL", func(c *models.Config, v string) error { c.RpcUrl = v; return nil }},
	{"MINTER_PRIVATE_KEY", func(c *models.Config, v string) error { c.PrivateKey = v; return nil }},
	{"MINTER_KEYSTORE", func(c *models.Config, v string) error { c.KeystorePath = v; return nil }},
	{"MINTER_KEYSTORE_PASSPHRASE", func(c *models.Config, v string) error { c.KeystorePassphrase = v; return nil }},
	{"CHAIN_ID", func(c *models.Config, v string) error {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.ChainID = id
		return nil
	}},
}

// LoadConfig reads the configuration from the specified path (defaulting to
// "config.toml"), then applies .env and environment overrides on top.
// A missing config file is not an error: everything can come from the
// environment. Missing credentials are only warned about; they surface as
// failures of the calls that need them.
func LoadConfig(configFilePath string) (models.Config, error) {
	if configFilePath == "" {
		configFilePath = "config.toml" // Default path
	}
	var cfg models.Config
	if _, err := toml.DecodeFile(configFilePath, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return models.Config{}, fmt.Errorf("error loading config file %s: %w", configFilePath, err)
		}
		log.Debugf("Config file %s not found, using environment only", configFilePath)
	} else {
		log.Infof("Configuration loaded from %s", configFilePath)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	if err := ApplyEnv(&cfg); err != nil {
		return models.Config{}, err
	}
	ApplyDefaults(&cfg)
	warnMissing(cfg)

	return cfg, nil
}

// ApplyEnv overrides config values with any set environment variables.
func ApplyEnv(cfg *models.Config) error {
	for _, o := range envOverrides {
		v, ok := os.LookupEnv(o.name)
		if !ok || v == "" {
			continue
		}
		if err := o.apply(cfg, v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", o.name, err)
		}
		log.Debugf("Config override from environment: %s", o.name)
	}
	return nil
}

// ApplyDefaults fills empty endpoint and size settings.
func ApplyDefaults(cfg *models.Config) {
	if cfg.OpenAIBaseUrl == "" {
		cfg.OpenAIBaseUrl = models.DefaultOpenAIBaseUrl
	}
	if cfg.PinataBaseUrl == "" {
		cfg.PinataBaseUrl = models.DefaultPinataBaseUrl
	}
	if cfg.GatewayUrl == "" {
		cfg.GatewayUrl = models.DefaultGatewayUrl
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = models.DefaultImageSize
	}
	if cfg.ApiLogPath == "" {
		cfg.ApiLogPath = models.DefaultApiLogPath
	}
	if cfg.ApiClientTimeoutSec < 0 {
		cfg.ApiClientTimeoutSec = 0
	}
}

func warnMissing(cfg models.Config) {
	if cfg.OpenAIApiKey == "" {
		log.Warn("Warning: OpenAIApiKey is not set (config or OPENAI_API_KEY)")
	}
	if cfg.PinataJWT == "" {
		log.Warn("Warning: PinataJWT is not set (config or PINATA_JWT)")
	}
	if cfg.ContractAddress == "" {
		log.Warn("Warning: ContractAddress is not set (config or CONTRACT_ADDRESS)")
	}
	if cfg.RpcUrl == "" {
		log.Warn("Warning: RpcUrl is not set (config or ETH_RPC_URL)")
	}
	if cfg.PrivateKey == "" && cfg.KeystorePath == "" {
		log.Warn("Warning: no signer configured (PrivateKey or KeystorePath)")
	}
}
