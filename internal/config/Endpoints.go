package config

import (
	"github.com/rs/zerolog/log"
)

// Endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// FarmStatsAPI serves per-pool on-chain aggregates (weights, staked totals, multipliers).
	FarmStatsAPI string
	// UserStatsAPI serves per-pool, per-actor aggregates (staked balance, pending rewards).
	UserStatsAPI string
	// PriceAPI serves USD prices keyed by token address.
	PriceAPI string
)

// loadEndpointConfig loads endpoint configuration from environment variables.
// This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading endpoint configuration from environment variables...")

	var err error

	FarmStatsAPI, err = getEnv("FARM_STATS_API")
	if err != nil {
		return err
	}

	UserStatsAPI, err = getEnv("USER_STATS_API")
	if err != nil {
		return err
	}

	PriceAPI, err = getEnv("PRICE_API")
	if err != nil {
		return err
	}

	log.Debug().
		Str("FarmStatsAPI", FarmStatsAPI).
		Str("UserStatsAPI", UserStatsAPI).
		Str("PriceAPI", PriceAPI).
		Msg("Endpoint configuration loaded successfully.")

	return nil
}
