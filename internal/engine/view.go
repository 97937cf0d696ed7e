package engine

import (
	sdkmath "cosmossdk.io/math"
	"github.com/cubdefi/farmboard/internal/apr"
	"github.com/cubdefi/farmboard/internal/types"
	"github.com/cubdefi/farmboard/internal/utils"
)

// BuildFarmView merges one farm's definition, public state, optional user
// state and the price table into a presentation view. It is a pure function;
// calling it twice with the same inputs yields structurally equal views.
//
// A missing quote price or unknown quote liquidity leaves LiquidityUSD nil,
// which in turn leaves APR nil; the farm stays listed either way. APR is only
// computed for the active context: a deactivated pool's on-chain weight can be
// stale and nonzero, so inactive views pin the rate to 0 instead.
func BuildFarmView(
	def types.FarmDefinition,
	pub types.PublicFarmState,
	user *types.UserFarmState,
	prices types.PriceTable,
	rewardPriceUSD *sdkmath.LegacyDec,
	chain types.ChainID,
	active bool,
) types.FarmView {
	view := types.FarmView{
		FarmDefinition: def,
		Public:         pub,
		User:           user,
	}

	if display, err := utils.RawToFloat64(pub.TotalStakedRaw, def.StakeToken.Decimals); err == nil {
		view.TotalStakedDisplay = &display
	}
	if user != nil {
		if staked, err := utils.RawToFloat64(user.StakedBalance, def.StakeToken.Decimals); err == nil {
			view.StakedDisplay = &staked
		}
	}

	if pub.TotalLiquidityInQuote != nil {
		if key, ok := def.QuoteToken.PriceKey(chain); ok {
			if quotePrice, ok := prices[key]; ok {
				liquidity := pub.TotalLiquidityInQuote.Mul(quotePrice)
				view.LiquidityUSD = &liquidity
			}
		}
	}

	if !active {
		if view.LiquidityUSD != nil {
			zero := 0.0
			view.APR = &zero
		}
		return view
	}

	if rewardPriceUSD != nil {
		view.APR = apr.FarmAPR(pub.PoolWeight, *rewardPriceUSD, view.LiquidityUSD, def.Scheme, def.Category)
	}

	return view
}
