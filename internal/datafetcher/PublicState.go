package datafetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/cubdefi/farmboard/internal/logger"
	"github.com/cubdefi/farmboard/internal/types"
)

var publicLogger = logger.GetForComponent("public_state_fetcher")

const (
	MAX_RETRIES     = 3
	TIMEOUT_SECONDS = 30
)

// FarmStatsClient fetches per-pool on-chain aggregates from the farm stats API.
type FarmStatsClient struct {
	baseURL string
	client  *http.Client
}

// NewFarmStatsClient creates a client for the given endpoint.
func NewFarmStatsClient(baseURL string) (*FarmStatsClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("farm stats base URL cannot be empty")
	}
	return &FarmStatsClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: TIMEOUT_SECONDS * time.Second},
	}, nil
}

type publicFarmPayload struct {
	PID                   uint64  `json:"pid"`
	PoolWeight            string  `json:"pool_weight"`
	TotalStakedRaw        string  `json:"total_staked_raw"`
	TotalLiquidityInQuote *string `json:"total_liquidity_in_quote"`
	Multiplier            string  `json:"multiplier"`
}

// FetchPublicState pulls the current aggregates for the requested pool ids.
// Every returned entry is fully validated; a malformed entry fails the whole
// fetch so the caller keeps its last-known-good snapshot instead of merging a
// partial one.
func (c *FarmStatsClient) FetchPublicState(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error) {
	if len(pids) == 0 {
		return nil, errors.New("pool id list cannot be empty")
	}

	ids := make([]string, len(pids))
	for i, pid := range pids {
		ids[i] = strconv.FormatUint(uint64(pid), 10)
	}
	endpoint := fmt.Sprintf("%s/farms?pids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	var payload []publicFarmPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("farm stats query failed: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty farm stats response", ErrInvalidPoolData)
	}

	requested := make(map[types.PoolID]bool, len(pids))
	for _, pid := range pids {
		requested[pid] = true
	}

	out := make(map[types.PoolID]types.PublicFarmState, len(payload))
	for _, entry := range payload {
		pid := types.PoolID(entry.PID)
		if !requested[pid] {
			publicLogger.Debug().Uint64("poolID", entry.PID).Msg("Skipping pool id that was not requested")
			continue
		}
		if _, dup := out[pid]; dup {
			return nil, fmt.Errorf("%w: duplicate entry for pool %d", ErrInvalidPoolData, pid)
		}

		state, err := parsePublicFarm(entry)
		if err != nil {
			publicLogger.Error().Err(err).Uint64("poolID", entry.PID).Msg("Public farm state validation failed")
			return nil, fmt.Errorf("pool %d validation failed: %w", pid, err)
		}
		out[pid] = state
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no requested pools in response", ErrInvalidPoolData)
	}

	publicLogger.Debug().
		Int("requestedPools", len(pids)).
		Int("returnedPools", len(out)).
		Msg("Fetched public farm state")

	return out, nil
}

func parsePublicFarm(entry publicFarmPayload) (types.PublicFarmState, error) {
	var zero types.PublicFarmState

	weight, err := sdkmath.LegacyNewDecFromStr(entry.PoolWeight)
	if err != nil {
		return zero, fmt.Errorf("%w: pool weight %q: %w", ErrInvalidPoolData, entry.PoolWeight, err)
	}
	if weight.IsNegative() || weight.GT(sdkmath.LegacyOneDec()) {
		return zero, fmt.Errorf("%w: pool weight %s outside [0,1]", ErrInvalidPoolData, weight)
	}

	staked, ok := sdkmath.NewIntFromString(entry.TotalStakedRaw)
	if !ok {
		return zero, fmt.Errorf("%w: total staked %q is not an integer", ErrInvalidPoolData, entry.TotalStakedRaw)
	}
	if staked.IsNegative() {
		return zero, fmt.Errorf("%w: total staked %s is negative", ErrInvalidPoolData, staked)
	}

	if strings.TrimSpace(entry.Multiplier) == "" {
		return zero, fmt.Errorf("%w: empty multiplier label", ErrInvalidPoolData)
	}

	var liquidity *sdkmath.LegacyDec
	if entry.TotalLiquidityInQuote != nil {
		dec, err := sdkmath.LegacyNewDecFromStr(*entry.TotalLiquidityInQuote)
		if err != nil {
			return zero, fmt.Errorf("%w: liquidity %q: %w", ErrInvalidPoolData, *entry.TotalLiquidityInQuote, err)
		}
		if dec.IsNegative() {
			return zero, fmt.Errorf("%w: liquidity %s is negative", ErrInvalidPoolData, dec)
		}
		liquidity = &dec
	}

	return types.PublicFarmState{
		PID:                   types.PoolID(entry.PID),
		PoolWeight:            weight,
		TotalStakedRaw:        staked,
		TotalLiquidityInQuote: liquidity,
		Multiplier:            strings.ToUpper(strings.TrimSpace(entry.Multiplier)),
	}, nil
}

// getJSON performs a GET with bounded retries and decodes the response body.
func (c *FarmStatsClient) getJSON(ctx context.Context, endpoint string, out any) error {
	var lastErr error

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			publicLogger.Warn().Err(err).Int("attempt", attempt).Msg("Farm stats request failed")
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			publicLogger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("Farm stats request rejected")
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPoolData, err)
		}
		return nil
	}

	return fmt.Errorf("farm stats request failed after %d attempts: %w", MAX_RETRIES, lastErr)
}
