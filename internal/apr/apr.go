/*

This package computes annualized reward rates. Everything stays in
arbitrary-precision decimals until the final percentage; the single contract
that matters is that no NaN or infinity ever leaves this boundary. A rate that
cannot be computed is an explicit nil, never a zero and never a degenerate
float.

*/

package apr

import (
	"math"

	sdkmath "cosmossdk.io/math"
	"github.com/cubdefi/farmboard/internal/config"
	"github.com/cubdefi/farmboard/internal/types"
)

// FarmAPR returns the annual percentage rate for a weight-based farm, or nil
// when the rate is undefined (unknown, zero or degenerate liquidity).
//
// Direct staking farms earn poolWeight of the native per-block emission;
// auto-compounding farms earn poolWeight of their scheme's yearly total.
func FarmAPR(poolWeight, rewardPriceUSD sdkmath.LegacyDec, liquidityUSD *sdkmath.LegacyDec, scheme types.RewardScheme, category types.PoolCategory) *float64 {
	if poolWeight.IsNil() || poolWeight.IsNegative() {
		return nil
	}
	if rewardPriceUSD.IsNil() || rewardPriceUSD.IsNegative() {
		return nil
	}
	if liquidityUSD == nil || liquidityUSD.IsNil() || !liquidityUSD.IsPositive() {
		// A zero denominator is undefined, not zero. This applies to the
		// auto-compound path as well as the direct one.
		return nil
	}

	var yearlyReward sdkmath.LegacyDec
	if category == types.AutoCompound {
		yearlyReward = schemeYearlyEmission(scheme).Mul(poolWeight)
	} else {
		yearlyReward = config.RewardPerBlock.Mul(config.BlocksPerYear).Mul(poolWeight)
	}

	rate := yearlyReward.Mul(rewardPriceUSD).Quo(*liquidityUSD).Mul(sdkmath.LegacyNewDec(100))
	return finitePercent(rate)
}

// PoolAPR returns the annual percentage rate for a single-asset reward pool
// with its own flat per-block emission, or nil when undefined.
func PoolAPR(stakingTokenPriceUSD, rewardTokenPriceUSD, totalStaked, tokenPerBlock sdkmath.LegacyDec) *float64 {
	if stakingTokenPriceUSD.IsNil() || rewardTokenPriceUSD.IsNil() || totalStaked.IsNil() || tokenPerBlock.IsNil() {
		return nil
	}
	if stakingTokenPriceUSD.IsNegative() || rewardTokenPriceUSD.IsNegative() || totalStaked.IsNegative() || tokenPerBlock.IsNegative() {
		return nil
	}

	totalRewardPricePerYear := rewardTokenPriceUSD.Mul(tokenPerBlock).Mul(config.BlocksPerYear)
	totalStakingTokenInPool := stakingTokenPriceUSD.Mul(totalStaked)
	if !totalStakingTokenInPool.IsPositive() {
		return nil
	}

	rate := totalRewardPricePerYear.Quo(totalStakingTokenInPool).Mul(sdkmath.LegacyNewDec(100))
	return finitePercent(rate)
}

func schemeYearlyEmission(scheme types.RewardScheme) sdkmath.LegacyDec {
	switch scheme {
	case types.SchemeBakery:
		return config.BakePerYear
	case types.SchemeBelt:
		return config.BeltPerYear
	default:
		return config.CakePerYear
	}
}

// finitePercent converts the decimal rate to a float64 and enforces the
// finite, non-negative postcondition.
func finitePercent(rate sdkmath.LegacyDec) *float64 {
	percent, err := rate.Float64()
	if err != nil {
		return nil
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 {
		return nil
	}
	return &percent
}
