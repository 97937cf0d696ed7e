package engine

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/cubdefi/farmboard/internal/types"
)

// Rank sorts views in place by the given key, descending, preserving the
// relative input order of ties. SortHot keeps the registry's natural order.
func Rank(views []types.FarmView, key types.SortKey) []types.FarmView {
	switch key {
	case types.SortApr:
		sort.SliceStable(views, func(i, j int) bool {
			return aprValue(views[i]) > aprValue(views[j])
		})
	case types.SortMultiplier:
		sort.SliceStable(views, func(i, j int) bool {
			return multiplierValue(views[i].Public.Multiplier) > multiplierValue(views[j].Public.Multiplier)
		})
	case types.SortEarned:
		sort.SliceStable(views, func(i, j int) bool {
			return earnedValue(views[i]).GT(earnedValue(views[j]))
		})
	case types.SortLiquidity:
		sort.SliceStable(views, func(i, j int) bool {
			return liquidityValue(views[i]) > liquidityValue(views[j])
		})
	}
	return views
}

// aprValue orders nil APRs lowest without mutating the view.
func aprValue(v types.FarmView) float64 {
	if v.APR == nil {
		return 0
	}
	return *v.APR
}

// multiplierValue extracts the numeric portion of a multiplier label, e.g.
// "40X" -> 40. Labels without a numeric prefix rank as 0.
func multiplierValue(label string) float64 {
	label = strings.TrimSpace(label)
	end := 0
	for end < len(label) {
		c := label[end]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		end++
	}
	if end == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0
	}
	return value
}

func earnedValue(v types.FarmView) sdkmath.Int {
	if v.User == nil || v.User.PendingEarnings.IsNil() {
		return sdkmath.ZeroInt()
	}
	return v.User.PendingEarnings
}

func liquidityValue(v types.FarmView) float64 {
	if v.LiquidityUSD == nil || v.LiquidityUSD.IsNil() {
		return 0
	}
	f, err := v.LiquidityUSD.Float64()
	if err != nil {
		return 0
	}
	return f
}

// Window is the engine's increasing presentation window. "More" grows it by
// the base increment; it restarts at the base only when the filter fingerprint
// changes, and merely reclamps when a data refresh shrinks the result set.
type Window struct {
	mu          sync.Mutex
	base        int
	size        int
	fingerprint string
}

// NewWindow creates a window with the given base size and increment.
func NewWindow(base int) *Window {
	if base <= 0 {
		base = 12
	}
	return &Window{base: base, size: base}
}

// More grows the window by one increment.
func (w *Window) More() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size += w.base
}

// SizeFor returns the current window length for a filtered set of the given
// total size, resetting first if the fingerprint changed.
func (w *Window) SizeFor(fingerprint string, total int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if fingerprint != w.fingerprint {
		w.fingerprint = fingerprint
		w.size = w.base
	}

	if w.size > total {
		return total
	}
	return w.size
}
