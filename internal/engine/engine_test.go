package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/cubdefi/farmboard/internal/config"
	"github.com/cubdefi/farmboard/internal/types"
)

type fakePublicSource struct {
	fn func(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error)
}

func (f *fakePublicSource) FetchPublicState(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error) {
	return f.fn(ctx, pids)
}

type fakeUserSource struct {
	fn func(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error)
}

func (f *fakeUserSource) FetchUserState(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error) {
	return f.fn(ctx, pids, actor)
}

type fakePriceSource struct {
	fn func(ctx context.Context) (types.PriceTable, error)
}

func (f *fakePriceSource) FetchPrices(ctx context.Context) (types.PriceTable, error) {
	return f.fn(ctx)
}

func testRegistry() []types.FarmDefinition {
	return []types.FarmDefinition{
		{PID: 10, LPSymbol: "CUB-BUSD LP", StakeToken: config.TokenCub, QuoteToken: config.TokenBusd, Category: types.LpStaking},
		{PID: 3, LPSymbol: "BNB-BUSD LP", StakeToken: config.TokenWbnb, QuoteToken: config.TokenBusd, Category: types.LpStaking},
		{PID: 2, LPSymbol: "AUTO-CUB LP", StakeToken: config.TokenCub, QuoteToken: config.TokenBusd, Category: types.LpStaking},
	}
}

func testPublicStates() map[types.PoolID]types.PublicFarmState {
	liquidity := sdkmath.LegacyNewDec(500)
	return map[types.PoolID]types.PublicFarmState{
		10: {PID: 10, PoolWeight: sdkmath.LegacyMustNewDecFromStr("0.1"), TotalStakedRaw: sdkmath.NewInt(1), TotalLiquidityInQuote: &liquidity, Multiplier: "40X"},
		3:  {PID: 3, PoolWeight: sdkmath.LegacyZeroDec(), TotalStakedRaw: sdkmath.NewInt(1), TotalLiquidityInQuote: &liquidity, Multiplier: "0X"},
		2:  {PID: 2, PoolWeight: sdkmath.LegacyMustNewDecFromStr("0.05"), TotalStakedRaw: sdkmath.NewInt(1), TotalLiquidityInQuote: &liquidity, Multiplier: "40X"},
	}
}

func testPriceTable(t *testing.T) types.PriceTable {
	t.Helper()
	busd, ok := config.TokenBusd.PriceKey(types.ChainMainnet)
	require.True(t, ok)
	cub, ok := config.TokenCub.PriceKey(types.ChainMainnet)
	require.True(t, ok)
	return types.PriceTable{
		busd: sdkmath.LegacyNewDec(1),
		cub:  sdkmath.LegacyNewDec(2),
	}
}

func newTestEngine(t *testing.T, public *fakePublicSource, user *fakeUserSource, price *fakePriceSource) *Engine {
	t.Helper()

	if public == nil {
		public = &fakePublicSource{fn: func(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error) {
			return testPublicStates(), nil
		}}
	}
	if user == nil {
		user = &fakeUserSource{fn: func(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error) {
			return map[types.PoolID]types.UserFarmState{}, nil
		}}
	}
	if price == nil {
		price = &fakePriceSource{fn: func(ctx context.Context) (types.PriceTable, error) {
			return testPriceTable(t), nil
		}}
	}

	eng, err := New(Config{
		Chain:          types.ChainMainnet,
		Registry:       testRegistry(),
		Archived:       map[types.PoolID]bool{2: true},
		RewardToken:    config.TokenCub,
		PublicSource:   public,
		UserSource:     user,
		PriceSource:    price,
		PublicInterval: time.Hour,
		UserInterval:   time.Hour,
		WindowSize:     12,
	})
	require.NoError(t, err)
	return eng
}

func TestNewRejectsBrokenWiring(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestQueryBeforeFirstSnapshot(t *testing.T) {
	eng := newTestEngine(t, nil, nil, nil)

	result := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})

	require.Empty(t, result.Farms)
	require.Zero(t, result.Total)
}

func TestQueryFiltersByContext(t *testing.T) {
	eng := newTestEngine(t, nil, nil, nil)
	eng.refreshPublic(context.Background())

	active := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	require.Len(t, active.Farms, 1)
	require.Equal(t, types.PoolID(10), active.Farms[0].PID)
	require.NotNil(t, active.Farms[0].APR)
	require.Greater(t, *active.Farms[0].APR, 0.0)

	finished := eng.Query(QueryOptions{Context: types.ViewFinished, Category: types.LpStaking})
	require.Len(t, finished.Farms, 1)
	require.Equal(t, types.PoolID(3), finished.Farms[0].PID)

	// The archive allow-list wins even though pid 2 still carries a live multiplier.
	archived := eng.Query(QueryOptions{Context: types.ViewArchived, Category: types.LpStaking})
	require.Len(t, archived.Farms, 1)
	require.Equal(t, types.PoolID(2), archived.Farms[0].PID)
	require.NotNil(t, archived.Farms[0].APR)
	require.Equal(t, 0.0, *archived.Farms[0].APR)
}

func TestQueryDropsUnknownPoolIDs(t *testing.T) {
	public := &fakePublicSource{fn: func(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error) {
		states := testPublicStates()
		states[999] = types.PublicFarmState{PID: 999, PoolWeight: sdkmath.LegacyOneDec(), TotalStakedRaw: sdkmath.NewInt(1), Multiplier: "40X"}
		return states, nil
	}}

	eng := newTestEngine(t, public, nil, nil)
	eng.refreshPublic(context.Background())

	result := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	for _, farm := range result.Farms {
		require.NotEqual(t, types.PoolID(999), farm.PID)
	}
}

func TestRefreshKeepsLastKnownGoodOnFailure(t *testing.T) {
	failing := false
	public := &fakePublicSource{fn: func(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error) {
		if failing {
			return nil, errors.New("upstream down")
		}
		return testPublicStates(), nil
	}}

	eng := newTestEngine(t, public, nil, nil)
	eng.refreshPublic(context.Background())

	before := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	require.Len(t, before.Farms, 1)

	failing = true
	eng.refreshPublic(context.Background())

	after := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	require.Equal(t, before.Farms, after.Farms)
}

func TestQuerySearch(t *testing.T) {
	eng := newTestEngine(t, nil, nil, nil)
	eng.refreshPublic(context.Background())

	hit := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking, Search: "cub"})
	require.Len(t, hit.Farms, 1)
	require.Equal(t, "CUB-BUSD LP", hit.Farms[0].LPSymbol)

	miss := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking, Search: "BLEO"})
	require.Empty(t, miss.Farms)
	require.Zero(t, miss.Total)
}

func TestQueryStakedOnly(t *testing.T) {
	user := &fakeUserSource{fn: func(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error) {
		return map[types.PoolID]types.UserFarmState{
			10: {PID: 10, Actor: actor, StakedBalance: sdkmath.NewInt(100), PendingEarnings: sdkmath.NewInt(1)},
			3:  {PID: 3, Actor: actor, StakedBalance: sdkmath.ZeroInt(), PendingEarnings: sdkmath.ZeroInt()},
		}, nil
	}}

	eng := newTestEngine(t, nil, user, nil)
	eng.refreshPublic(context.Background())

	// Without user data everything is "not staked".
	empty := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking, StakedOnly: true})
	require.Empty(t, empty.Farms)

	eng.SetActor("0xabc")
	eng.refreshUser(context.Background())

	staked := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking, StakedOnly: true})
	require.Len(t, staked.Farms, 1)
	require.Equal(t, types.PoolID(10), staked.Farms[0].PID)
	require.NotNil(t, staked.Farms[0].User)
}

func TestQueryWindowOverride(t *testing.T) {
	public := &fakePublicSource{fn: func(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error) {
		states := testPublicStates()
		// Make pid 3 active too, to get two active farms.
		s := states[3]
		s.Multiplier = "5X"
		states[3] = s
		return states, nil
	}}

	eng := newTestEngine(t, public, nil, nil)
	eng.refreshPublic(context.Background())

	result := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking, WindowSize: 1})
	require.Len(t, result.Farms, 1)
	require.Equal(t, 2, result.Total)
}

func TestUserDataReadyLifecycle(t *testing.T) {
	eng := newTestEngine(t, nil, nil, nil)
	eng.refreshPublic(context.Background())

	// No actor connected: nothing to wait for.
	require.True(t, eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking}).UserDataReady)

	eng.SetActor("0xabc")
	require.False(t, eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking}).UserDataReady)

	eng.refreshUser(context.Background())
	require.True(t, eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking}).UserDataReady)

	// Disconnecting clears the wait state immediately.
	eng.SetActor("")
	require.True(t, eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking}).UserDataReady)
}

func TestStaleActorFetchDiscarded(t *testing.T) {
	var eng *Engine
	user := &fakeUserSource{fn: func(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error) {
		if actor == "0xfirst" {
			// The actor switches while this fetch is in flight.
			eng.SetActor("0xsecond")
		}
		return map[types.PoolID]types.UserFarmState{
			10: {PID: 10, Actor: actor, StakedBalance: sdkmath.NewInt(1), PendingEarnings: sdkmath.NewInt(1)},
		}, nil
	}}

	eng = newTestEngine(t, nil, user, nil)
	eng.refreshPublic(context.Background())

	eng.SetActor("0xfirst")
	eng.refreshUser(context.Background())

	// The completion carried 0xfirst's balances and must not surface.
	result := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	require.False(t, result.UserDataReady)
	for _, farm := range result.Farms {
		require.Nil(t, farm.User)
	}

	// A fresh fetch for the current actor lands normally.
	eng.refreshUser(context.Background())
	result = eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	require.True(t, result.UserDataReady)
	require.NotNil(t, result.Farms[0].User)
	require.Equal(t, "0xsecond", result.Farms[0].User.Actor)
}

func TestSetActorClearsPreviousUserData(t *testing.T) {
	user := &fakeUserSource{fn: func(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error) {
		return map[types.PoolID]types.UserFarmState{
			10: {PID: 10, Actor: actor, StakedBalance: sdkmath.NewInt(1), PendingEarnings: sdkmath.NewInt(1)},
		}, nil
	}}

	eng := newTestEngine(t, nil, user, nil)
	eng.refreshPublic(context.Background())

	eng.SetActor("0xfirst")
	eng.refreshUser(context.Background())
	require.NotNil(t, eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking}).Farms[0].User)

	eng.SetActor("0xsecond")
	result := eng.Query(QueryOptions{Context: types.ViewActive, Category: types.LpStaking})
	require.Nil(t, result.Farms[0].User)
	require.False(t, result.UserDataReady)
}

func TestFarmByPID(t *testing.T) {
	eng := newTestEngine(t, nil, nil, nil)
	eng.refreshPublic(context.Background())

	view, ok := eng.FarmByPID(10)
	require.True(t, ok)
	require.Equal(t, "CUB-BUSD LP", view.LPSymbol)
	require.NotNil(t, view.APR)

	_, ok = eng.FarmByPID(999)
	require.False(t, ok)
}
