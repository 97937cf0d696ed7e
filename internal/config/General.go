package config

import (
	"errors"
	"strconv"
	"time"

	"os"

	"github.com/cubdefi/farmboard/internal/types"
	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// Chain is the network whose token addresses and LP contracts are used.
	Chain types.ChainID

	// PublicRefreshInterval is the cadence for pool weight/liquidity/multiplier data.
	PublicRefreshInterval time.Duration
	// UserRefreshInterval is the cadence for per-actor stake/earnings data.
	UserRefreshInterval time.Duration

	// VisibleWindow is the starting (and increment) size of the farm list window.
	VisibleWindow int
)

// LoadConfig loads configuration from environment variables and sets the global config vars.
// Endpoints are required; cadences and window size have defaults.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	chain, err := getEnvAsIntDefault("CHAIN_ID", int(types.ChainMainnet))
	if err != nil {
		return err
	}
	Chain = types.ChainID(chain)
	if Chain != types.ChainMainnet && Chain != types.ChainTestnet {
		return errors.New("CHAIN_ID must be 56 (mainnet) or 97 (testnet)")
	}

	publicSeconds, err := getEnvAsIntDefault("PUBLIC_REFRESH_SECONDS", 60)
	if err != nil {
		return err
	}
	if publicSeconds <= 0 {
		return errors.New("PUBLIC_REFRESH_SECONDS must be positive")
	}
	PublicRefreshInterval = time.Duration(publicSeconds) * time.Second

	userSeconds, err := getEnvAsIntDefault("USER_REFRESH_SECONDS", 10)
	if err != nil {
		return err
	}
	if userSeconds <= 0 {
		return errors.New("USER_REFRESH_SECONDS must be positive")
	}
	UserRefreshInterval = time.Duration(userSeconds) * time.Second

	VisibleWindow, err = getEnvAsIntDefault("VISIBLE_WINDOW", 12)
	if err != nil {
		return err
	}
	if VisibleWindow <= 0 {
		return errors.New("VISIBLE_WINDOW must be positive")
	}

	// Load endpoint configuration
	if err := loadEndpointConfig(); err != nil {
		return err
	}

	log.Debug().
		Int("Chain", int(Chain)).
		Dur("PublicRefreshInterval", PublicRefreshInterval).
		Dur("UserRefreshInterval", UserRefreshInterval).
		Int("VisibleWindow", VisibleWindow).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvAsIntDefault retrieves an environment variable as an int, falling back
// to the default when unset. Returns error when set but invalid.
func getEnvAsIntDefault(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid integer, got: " + valueStr)
	}
	return value, nil
}
