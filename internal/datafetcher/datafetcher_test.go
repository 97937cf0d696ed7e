package datafetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/cubdefi/farmboard/internal/types"
)

func TestFetchPublicState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/farms", r.URL.Path)
		require.Equal(t, "10,3", r.URL.Query().Get("pids"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"pid": 10, "pool_weight": "0.1", "total_staked_raw": "1000000", "total_liquidity_in_quote": "500.5", "multiplier": "40x"},
			{"pid": 3, "pool_weight": "0", "total_staked_raw": "0", "total_liquidity_in_quote": null, "multiplier": "0X"}
		]`))
	}))
	defer server.Close()

	client, err := NewFarmStatsClient(server.URL)
	require.NoError(t, err)

	out, err := client.FetchPublicState(context.Background(), []types.PoolID{10, 3})
	require.NoError(t, err)
	require.Len(t, out, 2)

	farm := out[10]
	require.Equal(t, sdkmath.LegacyMustNewDecFromStr("0.1"), farm.PoolWeight)
	require.Equal(t, sdkmath.NewInt(1_000_000), farm.TotalStakedRaw)
	require.NotNil(t, farm.TotalLiquidityInQuote)
	require.Equal(t, sdkmath.LegacyMustNewDecFromStr("500.5"), *farm.TotalLiquidityInQuote)
	// Labels are normalized to upper case on the way in.
	require.Equal(t, "40X", farm.Multiplier)

	require.True(t, out[3].Deactivated())
	require.Nil(t, out[3].TotalLiquidityInQuote)
}

func TestFetchPublicStateRejectsMalformedEntry(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"weight above one", `[{"pid": 10, "pool_weight": "1.5", "total_staked_raw": "0", "multiplier": "1X"}]`},
		{"negative staked", `[{"pid": 10, "pool_weight": "0.1", "total_staked_raw": "-5", "multiplier": "1X"}]`},
		{"empty multiplier", `[{"pid": 10, "pool_weight": "0.1", "total_staked_raw": "0", "multiplier": " "}]`},
		{"duplicate pool", `[{"pid": 10, "pool_weight": "0.1", "total_staked_raw": "0", "multiplier": "1X"},
			{"pid": 10, "pool_weight": "0.1", "total_staked_raw": "0", "multiplier": "1X"}]`},
		{"empty response", `[]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := NewFarmStatsClient(server.URL)
			require.NoError(t, err)

			_, err = client.FetchPublicState(context.Background(), []types.PoolID{10})
			require.Error(t, err)
		})
	}
}

func TestFetchPublicStateSkipsUnrequestedPools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"pid": 10, "pool_weight": "0.1", "total_staked_raw": "1", "multiplier": "1X"},
			{"pid": 999, "pool_weight": "0.1", "total_staked_raw": "1", "multiplier": "1X"}
		]`))
	}))
	defer server.Close()

	client, err := NewFarmStatsClient(server.URL)
	require.NoError(t, err)

	out, err := client.FetchPublicState(context.Background(), []types.PoolID{10})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Contains(t, out, types.PoolID(10))
}

func TestFetchUserState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/0xabc", r.URL.Path)

		w.Write([]byte(`[
			{"pid": 10, "staked_balance": "150", "pending_earnings": "42"},
			{"pid": 3, "staked_balance": "0", "pending_earnings": "0"}
		]`))
	}))
	defer server.Close()

	client, err := NewUserStatsClient(server.URL)
	require.NoError(t, err)

	out, err := client.FetchUserState(context.Background(), []types.PoolID{10, 3}, "0xabc")
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, "0xabc", out[10].Actor)
	require.Equal(t, sdkmath.NewInt(150), out[10].StakedBalance)
	require.Equal(t, sdkmath.NewInt(42), out[10].PendingEarnings)

	// Zero balances come through as data, not absence.
	require.Contains(t, out, types.PoolID(3))
	require.True(t, out[3].StakedBalance.IsZero())
}

func TestFetchUserStateRejectsNegativeBalances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"pid": 10, "staked_balance": "-1", "pending_earnings": "0"}]`))
	}))
	defer server.Close()

	client, err := NewUserStatsClient(server.URL)
	require.NoError(t, err)

	_, err = client.FetchUserState(context.Background(), []types.PoolID{10}, "0xabc")
	require.ErrorIs(t, err, ErrInvalidUserData)
}

func TestFetchUserStateRequiresActor(t *testing.T) {
	client, err := NewUserStatsClient("http://localhost:1")
	require.NoError(t, err)

	_, err = client.FetchUserState(context.Background(), []types.PoolID{10}, "  ")
	require.Error(t, err)
}

func TestFetchPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prices", r.URL.Path)

		w.Write([]byte(`{"prices": {
			"0xE9e7CEA3DedcA5984780Bafc599bD69ADd087D56": "1.0001",
			"0x50C34995a273075a80c23A989DAdD0cd5d46eD39": "0.25"
		}}`))
	}))
	defer server.Close()

	client, err := NewPriceClient(server.URL)
	require.NoError(t, err)

	table, err := client.FetchPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2)

	// Keys are lower-cased regardless of how the API spells them.
	price, ok := table["0xe9e7cea3dedca5984780bafc599bd69add087d56"]
	require.True(t, ok)
	require.Equal(t, sdkmath.LegacyMustNewDecFromStr("1.0001"), price)
}

func TestFetchPricesRejectsBadTable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty table", `{"prices": {}}`},
		{"negative price", `{"prices": {"0xabc": "-1"}}`},
		{"malformed price", `{"prices": {"0xabc": "soon"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := NewPriceClient(server.URL)
			require.NoError(t, err)

			_, err = client.FetchPrices(context.Background())
			require.ErrorIs(t, err, ErrInvalidPriceData)
		})
	}
}

func TestClientsRejectEmptyBaseURL(t *testing.T) {
	_, err := NewFarmStatsClient("")
	require.Error(t, err)
	_, err = NewUserStatsClient(" ")
	require.Error(t, err)
	_, err = NewPriceClient("")
	require.Error(t, err)
}
