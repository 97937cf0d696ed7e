package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubdefi/farmboard/internal/types"
)

func TestLoadFarmsMainnet(t *testing.T) {
	registry, err := LoadFarms(types.ChainMainnet)
	require.NoError(t, err)
	require.NotEmpty(t, registry)

	seen := make(map[types.PoolID]bool, len(registry))
	for _, farm := range registry {
		require.False(t, seen[farm.PID], "duplicate pid %d", farm.PID)
		seen[farm.PID] = true

		require.NotEmpty(t, farm.LPSymbol)
		require.NotEmpty(t, farm.LPAddress[types.ChainMainnet])

		_, ok := farm.QuoteToken.AddressOn(types.ChainMainnet)
		require.True(t, ok, "farm %d quote token %s missing mainnet address", farm.PID, farm.QuoteToken.Symbol)
	}

	// Every archived pid must still resolve to a registry entry, otherwise the
	// archive view silently shrinks.
	for pid := range ArchivedPoolIDs {
		require.True(t, seen[pid], "archived pid %d missing from registry", pid)
	}
}

func TestLoadFarmsAutoCompoundRewardTokenFlag(t *testing.T) {
	registry, err := LoadFarms(types.ChainMainnet)
	require.NoError(t, err)

	for _, farm := range registry {
		if farm.AutoCompoundRewardToken {
			require.Equal(t, types.AutoCompound, farm.Category)
		}
	}
}
