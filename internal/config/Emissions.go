/*

This file contains the emission constants the APR calculator works from.

BlocksPerYear assumes the chain's 3-second block time. The per-year totals for
auto-compounding schemes are protocol-wide yearly emissions of the underlying
platforms; a farm's share is its pool weight times the scheme total.

*/

package config

import (
	sdkmath "cosmossdk.io/math"
)

var (
	// BlocksPerYear at 3s blocks: 20 * 60 * 24 * 365.
	BlocksPerYear = sdkmath.LegacyNewDec(10_512_000)

	// RewardPerBlock is the native token emission per block for direct staking farms.
	RewardPerBlock = sdkmath.LegacyNewDec(40)

	// CakePerYear is the default auto-compound scheme's yearly emission total.
	CakePerYear = sdkmath.LegacyNewDec(40).Mul(BlocksPerYear)

	// BakePerYear is the Bakery scheme's yearly emission total.
	BakePerYear = sdkmath.LegacyNewDec(10).Mul(BlocksPerYear)

	// BeltPerYear is the Belt scheme's yearly emission total.
	BeltPerYear = sdkmath.LegacyNewDec(3).Mul(BlocksPerYear)
)
