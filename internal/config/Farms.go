/*

This file contains the static farm registry and the archived pool allow-list.

The table is loaded once at process start through LoadFarms, which validates it
and refuses to start on malformed data (duplicate pids, empty symbols, missing
addresses). Classification is a closed category per farm, so an inconsistent
flag combination cannot exist past this point.

*/

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cubdefi/farmboard/internal/types"
)

// ArchivedPoolIDs is the admin-curated set of decommissioned pools. Archived
// pools are excluded from both the active and finished views regardless of
// their on-chain multiplier.
var ArchivedPoolIDs = map[types.PoolID]bool{
	2:  true,
	4:  true,
	5:  true,
	13: true,
}

var farms = []types.FarmDefinition{
	{
		PID:      10,
		LPSymbol: "CUB-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x0EF564D4F8D6C0ffE13348A32e21EFd55e508e84",
		},
		StakeToken: TokenCub,
		QuoteToken: TokenBusd,
		Category:   types.LpStaking,
	},
	{
		PID:      11,
		LPSymbol: "CUB-BNB LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0xc08C74dC9EF46C6dB122b30c48a659831017DD2E",
		},
		StakeToken: TokenCub,
		QuoteToken: TokenWbnb,
		Category:   types.LpStaking,
	},
	{
		PID:      9,
		LPSymbol: "bLEO-BNB LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x243E060DEcA0499fCaE6ABe548C0115faaBa0ed4",
		},
		StakeToken: TokenBleo,
		QuoteToken: TokenWbnb,
		Category:   types.LpStaking,
	},
	{
		PID:      6,
		LPSymbol: "USDT-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0xc15fa3E22c912A276550F3E5FE3b0Deb87B55aCd",
		},
		StakeToken: TokenUsdt,
		QuoteToken: TokenBusd,
		Category:   types.LpStaking,
	},
	{
		PID:      8,
		LPSymbol: "BTCB-BNB LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x7561EEe90e24F3b348E1087A005F78B4c8453524",
		},
		StakeToken: TokenBtcb,
		QuoteToken: TokenWbnb,
		Category:   types.LpStaking,
	},
	{
		PID:      7,
		LPSymbol: "ETH-BNB LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x70D8929d04b60Af4fb9B58713eBcf18765aDE422",
		},
		StakeToken: TokenEth,
		QuoteToken: TokenWbnb,
		Category:   types.LpStaking,
	},
	{
		PID:      3,
		LPSymbol: "DAI-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x3aB77e40340AB084c3e23Be8e5A6f7afed9D41DC",
		},
		StakeToken: TokenDai,
		QuoteToken: TokenBusd,
		Category:   types.LpStaking,
	},
	{
		PID:      23,
		LPSymbol: "DEC-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x4c79edab89848f34084283bb1fe8eac2dca649c3",
		},
		StakeToken: TokenDec,
		QuoteToken: TokenBusd,
		Category:   types.LpStaking,
	},

	// Single-token staking dens. The LP address points at the pair used for
	// pricing the staked token against its quote.
	{
		PID:      12,
		LPSymbol: "CUB",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x0EF564D4F8D6C0ffE13348A32e21EFd55e508e84",
		},
		StakeToken: TokenCub,
		QuoteToken: TokenBusd,
		Category:   types.TokenOnly,
	},
	{
		PID:      17,
		LPSymbol: "BTCB",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0xb8875e207ee8096a929d543c9981c9586992eacb",
		},
		StakeToken: TokenBtcb,
		QuoteToken: TokenBusd,
		Category:   types.TokenOnly,
	},
	{
		PID:      18,
		LPSymbol: "ETH",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0xd9a0d1f5e02de2403f68bb71a15f8847a854b494",
		},
		StakeToken: TokenEth,
		QuoteToken: TokenBusd,
		Category:   types.TokenOnly,
	},
	{
		PID:      21,
		LPSymbol: "DOT",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x54c1ec2f543966953f2f7564692606ea7d5a184e",
		},
		StakeToken: TokenDot,
		QuoteToken: TokenBusd,
		Category:   types.TokenOnly,
	},

	// Auto-compounding kingdoms.
	{
		PID:      0,
		LPSymbol: "CAKE",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x0ed8e0a2d99643e1e65cca22ed4424090b8b7458",
		},
		StakeToken:              TokenCake,
		QuoteToken:              TokenBusd,
		Category:                types.AutoCompound,
		AutoCompoundRewardToken: true,
	},
	{
		PID:      1,
		LPSymbol: "WBNB-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x58f876857a02d6762e0101bb5c46a8c1ed44dc16",
		},
		StakeToken: TokenWbnb,
		QuoteToken: TokenBusd,
		Category:   types.AutoCompound,
	},

	// Decommissioned pools kept for the archived view.
	{
		PID:      2,
		LPSymbol: "CAKE-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x0Ed8E0A2D99643e1e65CCA22Ed4424090B8B7458",
		},
		StakeToken: TokenCake,
		QuoteToken: TokenBusd,
		Category:   types.LpStaking,
	},
	{
		PID:      4,
		LPSymbol: "USDC-BUSD LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x680Dd100E4b394Bda26A59dD5c119A391e747d18",
		},
		StakeToken: TokenUsdc,
		QuoteToken: TokenBusd,
		Category:   types.LpStaking,
	},
	{
		PID:      5,
		LPSymbol: "DOT-BNB LP",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0xbCD62661A6b1DEd703585d3aF7d7649Ef4dcDB5c",
		},
		StakeToken: TokenDot,
		QuoteToken: TokenWbnb,
		Category:   types.LpStaking,
	},
	{
		PID:      13,
		LPSymbol: "bLEO",
		LPAddress: map[types.ChainID]string{
			types.ChainMainnet: "0x243E060DEcA0499fCaE6ABe548C0115faaBa0ed4",
		},
		StakeToken: TokenBleo,
		QuoteToken: TokenWbnb,
		Category:   types.TokenOnly,
		// Legacy reward contract without a working withdraw path.
		Withdrawal: types.WithdrawEmergencyOnly,
	},
}

// LoadFarms validates the static farm table for the given chain and returns it.
// Any malformed entry fails the load; partial registries are never returned.
func LoadFarms(chain types.ChainID) ([]types.FarmDefinition, error) {
	seen := make(map[types.PoolID]bool, len(farms))

	for _, farm := range farms {
		if seen[farm.PID] {
			return nil, fmt.Errorf("duplicate farm pid %d", farm.PID)
		}
		seen[farm.PID] = true

		if strings.TrimSpace(farm.LPSymbol) == "" {
			return nil, fmt.Errorf("farm %d has empty lp symbol", farm.PID)
		}
		switch farm.Category {
		case types.LpStaking, types.TokenOnly, types.AutoCompound:
		default:
			return nil, fmt.Errorf("farm %d has invalid category %d", farm.PID, farm.Category)
		}
		if farm.AutoCompoundRewardToken && farm.Category != types.AutoCompound {
			return nil, fmt.Errorf("farm %d marks an auto-compound reward token outside the auto-compound category", farm.PID)
		}
		if chain == types.ChainMainnet {
			if strings.TrimSpace(farm.LPAddress[chain]) == "" {
				return nil, fmt.Errorf("farm %d has no lp address on chain %d", farm.PID, chain)
			}
			if _, ok := farm.QuoteToken.AddressOn(chain); !ok {
				return nil, fmt.Errorf("farm %d quote token %s has no address on chain %d", farm.PID, farm.QuoteToken.Symbol, chain)
			}
		}
	}

	if len(farms) == 0 {
		return nil, errors.New("farm registry is empty")
	}

	out := make([]types.FarmDefinition, len(farms))
	copy(out, farms)
	return out, nil
}
