package engine

import (
	"strings"

	"github.com/cubdefi/farmboard/internal/types"
)

// Classify assigns a farm to exactly one view context. The archived allow-list
// wins over everything else; among non-archived farms the multiplier sentinel
// alone decides active versus finished. The three sets partition the registry.
func Classify(pid types.PoolID, pub types.PublicFarmState, archived map[types.PoolID]bool) types.ViewContext {
	if archived[pid] {
		return types.ViewArchived
	}
	if pub.Deactivated() {
		return types.ViewFinished
	}
	return types.ViewActive
}

// MatchesSearch reports whether the query matches the farm's display symbol.
// Matching is a case-insensitive substring test against the leading token
// segment, so "cub" matches "CUB-BUSD LP" but "BLEO" does not.
func MatchesSearch(def types.FarmDefinition, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(def.LeadingSymbol()), strings.ToLower(query))
}

// isStaked reports whether loaded user state shows a positive stake. Absent
// user state is "not staked", never "staked".
func isStaked(user *types.UserFarmState) bool {
	return user != nil && !user.StakedBalance.IsNil() && user.StakedBalance.IsPositive()
}
