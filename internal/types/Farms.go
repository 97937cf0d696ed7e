/*

This is a custom type set for farms which contains all the state needed for
building, classifying and ranking farm views.

*/

package types

import (
	"fmt"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
)

type PoolID uint64

// DeactivatedMultiplier marks a pool as deactivated (zero ongoing emission)
// while keeping it listed under the finished view.
const DeactivatedMultiplier = "0X"

// PoolCategory is the closed classification of a farm. The registry rejects
// anything outside these three, so an invalid flag combination cannot reach
// query time.
type PoolCategory int

const (
	LpStaking PoolCategory = iota
	TokenOnly
	AutoCompound
)

func (c PoolCategory) String() string {
	switch c {
	case LpStaking:
		return "lp"
	case TokenOnly:
		return "token"
	case AutoCompound:
		return "auto"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParsePoolCategory maps the API spelling back to a category.
func ParsePoolCategory(s string) (PoolCategory, error) {
	switch strings.ToLower(s) {
	case "lp", "":
		return LpStaking, nil
	case "token":
		return TokenOnly, nil
	case "auto", "kingdom":
		return AutoCompound, nil
	default:
		return LpStaking, fmt.Errorf("unknown pool category: %q", s)
	}
}

// RewardScheme selects which protocol-wide yearly emission total an
// auto-compounding farm accrues from.
type RewardScheme int

const (
	SchemeDefault RewardScheme = iota
	SchemeBakery
	SchemeBelt
)

func (s RewardScheme) String() string {
	switch s {
	case SchemeDefault:
		return "default"
	case SchemeBakery:
		return "bakery"
	case SchemeBelt:
		return "belt"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

// WithdrawalStrategy is resolved once at registry load. A handful of legacy
// reward contracts only support emergencyWithdraw, which the action layer needs
// to know without comparing contract addresses at runtime.
type WithdrawalStrategy int

const (
	WithdrawStandard WithdrawalStrategy = iota
	WithdrawEmergencyOnly
)

// ViewContext is the presentation set a farm query targets.
type ViewContext int

const (
	ViewActive ViewContext = iota
	ViewFinished
	ViewArchived
)

func (v ViewContext) String() string {
	switch v {
	case ViewActive:
		return "active"
	case ViewFinished:
		return "finished"
	case ViewArchived:
		return "archived"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

func ParseViewContext(s string) (ViewContext, error) {
	switch strings.ToLower(s) {
	case "active", "":
		return ViewActive, nil
	case "finished", "history":
		return ViewFinished, nil
	case "archived":
		return ViewArchived, nil
	default:
		return ViewActive, fmt.Errorf("unknown view context: %q", s)
	}
}

// SortKey selects the ranking order for a farm query.
type SortKey int

const (
	SortHot SortKey = iota
	SortApr
	SortMultiplier
	SortEarned
	SortLiquidity
)

func (k SortKey) String() string {
	switch k {
	case SortHot:
		return "hot"
	case SortApr:
		return "apr"
	case SortMultiplier:
		return "multiplier"
	case SortEarned:
		return "earned"
	case SortLiquidity:
		return "liquidity"
	default:
		return fmt.Sprintf("sort(%d)", int(k))
	}
}

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "hot", "":
		return SortHot, nil
	case "apr":
		return SortApr, nil
	case "multiplier":
		return SortMultiplier, nil
	case "earned":
		return SortEarned, nil
	case "liquidity":
		return SortLiquidity, nil
	default:
		return SortHot, fmt.Errorf("unknown sort key: %q", s)
	}
}

// FarmDefinition is the immutable registry entry for one farm.
type FarmDefinition struct {
	PID        PoolID             `json:"pid"`
	LPSymbol   string             `json:"lp_symbol"` // e.g., "CUB-BUSD LP"
	LPAddress  map[ChainID]string `json:"lp_address"`
	StakeToken Token              `json:"token"`
	QuoteToken Token              `json:"quote_token"`
	Scheme     RewardScheme       `json:"scheme"`
	Category   PoolCategory       `json:"category"`

	// AutoCompoundRewardToken marks the single-token auto-compounding farm
	// whose staked asset is itself the external reward token.
	AutoCompoundRewardToken bool `json:"auto_compound_reward_token,omitempty"`

	Withdrawal WithdrawalStrategy `json:"-"`
}

// LeadingSymbol returns the leading token segment of the display symbol, the
// part search queries match against ("CUB-BUSD LP" -> "CUB-BUSD").
func (f FarmDefinition) LeadingSymbol() string {
	if i := strings.IndexByte(f.LPSymbol, ' '); i >= 0 {
		return f.LPSymbol[:i]
	}
	return f.LPSymbol
}

// PublicFarmState is the per-pool on-chain aggregate, replaced wholesale on
// each successful public refresh.
type PublicFarmState struct {
	PID                   PoolID             `json:"pid"`
	PoolWeight            sdkmath.LegacyDec  `json:"pool_weight"` // allocPoint / totalAllocPoint, in [0,1]
	TotalStakedRaw        sdkmath.Int        `json:"total_staked_raw"`
	TotalLiquidityInQuote *sdkmath.LegacyDec `json:"total_liquidity_in_quote,omitempty"` // nil until computed upstream
	Multiplier            string             `json:"multiplier"` // e.g., "40X"; "0X" means deactivated
}

// Deactivated reports whether the pool's emission has been turned off.
func (p PublicFarmState) Deactivated() bool {
	return p.Multiplier == DeactivatedMultiplier
}

// UserFarmState is the per-pool, per-actor aggregate. It is absent (not zero)
// until the actor's first successful fetch.
type UserFarmState struct {
	PID             PoolID      `json:"pid"`
	Actor           string      `json:"actor"`
	StakedBalance   sdkmath.Int `json:"staked_balance"`
	PendingEarnings sdkmath.Int `json:"pending_earnings"`
}

// PriceTable maps lower-cased token addresses to USD prices.
type PriceTable map[string]sdkmath.LegacyDec

// FarmView is the derived, query-time merge of definition, public state, user
// state and prices. It is rebuilt on every query and never mutated in place.
type FarmView struct {
	FarmDefinition
	Public PublicFarmState `json:"public"`
	User   *UserFarmState  `json:"user,omitempty"`

	LiquidityUSD *sdkmath.LegacyDec `json:"liquidity_usd,omitempty"`
	APR          *float64           `json:"apr,omitempty"` // percentage; nil when not computable

	// Human-unit amounts derived from the stake token's precision. Nil when
	// the raw amount does not convert to a finite value.
	TotalStakedDisplay *float64 `json:"total_staked_display,omitempty"`
	StakedDisplay      *float64 `json:"staked_display,omitempty"`
}

// RefreshCycle summarizes one public refresh for the history store.
type RefreshCycle struct {
	CycleID           string    `json:"cycle_id"`
	CycleNumber       int       `json:"cycle_number"`
	Timestamp         time.Time `json:"timestamp"`
	FarmsRefreshed    int       `json:"farms_refreshed"`
	PricesFetched     int       `json:"prices_fetched"`
	DroppedPoolIDs    []PoolID  `json:"dropped_pool_ids,omitempty"`
	TotalLiquidityUSD float64   `json:"total_liquidity_usd"`
}
