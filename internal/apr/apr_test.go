package apr

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/cubdefi/farmboard/internal/types"
)

func dec(s string) sdkmath.LegacyDec {
	return sdkmath.LegacyMustNewDecFromStr(s)
}

func decPtr(s string) *sdkmath.LegacyDec {
	d := dec(s)
	return &d
}

func TestFarmAPRKnownVector(t *testing.T) {
	// weight 0.1 of a 40/block emission over 10,512,000 blocks, reward at $2,
	// against $1,000 of liquidity.
	got := FarmAPR(dec("0.1"), dec("2"), decPtr("1000"), types.SchemeDefault, types.LpStaking)

	require.NotNil(t, got)
	require.InDelta(t, 8409600.0, *got, 1e-6)
}

func TestFarmAPRUndefinedLiquidity(t *testing.T) {
	weight, price := dec("0.1"), dec("2")

	require.Nil(t, FarmAPR(weight, price, nil, types.SchemeDefault, types.LpStaking))
	require.Nil(t, FarmAPR(weight, price, decPtr("0"), types.SchemeDefault, types.LpStaking))
	require.Nil(t, FarmAPR(weight, price, decPtr("-5"), types.SchemeDefault, types.LpStaking))

	// Same rule on the auto-compound path.
	require.Nil(t, FarmAPR(weight, price, decPtr("0"), types.SchemeBelt, types.AutoCompound))
}

func TestFarmAPRRejectsNegativeInputs(t *testing.T) {
	require.Nil(t, FarmAPR(dec("-0.1"), dec("2"), decPtr("1000"), types.SchemeDefault, types.LpStaking))
	require.Nil(t, FarmAPR(dec("0.1"), dec("-2"), decPtr("1000"), types.SchemeDefault, types.LpStaking))
}

func TestFarmAPRZeroWeightIsZeroNotNil(t *testing.T) {
	got := FarmAPR(dec("0"), dec("2"), decPtr("1000"), types.SchemeDefault, types.LpStaking)

	require.NotNil(t, got)
	require.Equal(t, 0.0, *got)
}

func TestFarmAPRAutoCompoundSchemes(t *testing.T) {
	tests := []struct {
		name   string
		scheme types.RewardScheme
		want   float64
	}{
		{"default", types.SchemeDefault, 21024000.0}, // 40/block
		{"bakery", types.SchemeBakery, 5256000.0},    // 10/block
		{"belt", types.SchemeBelt, 1576800.0},        // 3/block
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FarmAPR(dec("0.5"), dec("1"), decPtr("1000"), tc.scheme, types.AutoCompound)
			require.NotNil(t, got)
			require.InDelta(t, tc.want, *got, 1e-6)
		})
	}
}

func TestFarmAPRIsAlwaysFinite(t *testing.T) {
	vectors := []struct {
		weight, price string
		liquidity     string
	}{
		{"1", "100000000000", "0.000000000000000001"},
		{"0.000000000000000001", "0.000000000000000001", "1000000000000000000"},
		{"1", "0", "1000"},
	}

	for _, v := range vectors {
		got := FarmAPR(dec(v.weight), dec(v.price), decPtr(v.liquidity), types.SchemeDefault, types.LpStaking)
		if got == nil {
			continue
		}
		require.False(t, math.IsNaN(*got))
		require.False(t, math.IsInf(*got, 0))
		require.GreaterOrEqual(t, *got, 0.0)
	}
}

func TestPoolAPRKnownVector(t *testing.T) {
	// $2 reward, 0.5/block, against 1,000 tokens staked at $1.
	got := PoolAPR(dec("1"), dec("2"), dec("1000"), dec("0.5"))

	require.NotNil(t, got)
	require.InDelta(t, 1051200.0, *got, 1e-6)
}

func TestPoolAPRUndefined(t *testing.T) {
	require.Nil(t, PoolAPR(dec("1"), dec("2"), dec("0"), dec("0.5")))
	require.Nil(t, PoolAPR(dec("0"), dec("2"), dec("1000"), dec("0.5")))
	require.Nil(t, PoolAPR(dec("1"), dec("-2"), dec("1000"), dec("0.5")))
}
