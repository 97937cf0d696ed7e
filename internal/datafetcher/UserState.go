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

var userLogger = logger.GetForComponent("user_state_fetcher")

// UserStatsClient fetches per-pool, per-actor aggregates from the user stats API.
type UserStatsClient struct {
	baseURL string
	client  *http.Client
}

// NewUserStatsClient creates a client for the given endpoint.
func NewUserStatsClient(baseURL string) (*UserStatsClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("user stats base URL cannot be empty")
	}
	return &UserStatsClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: TIMEOUT_SECONDS * time.Second},
	}, nil
}

type userFarmPayload struct {
	PID             uint64 `json:"pid"`
	StakedBalance   string `json:"staked_balance"`
	PendingEarnings string `json:"pending_earnings"`
}

// FetchUserState pulls the actor's stake and pending rewards for the requested
// pool ids. Zero balances are real data, not absence; absence means the pool id
// was missing from the response.
func (c *UserStatsClient) FetchUserState(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errors.New("actor cannot be empty")
	}
	if len(pids) == 0 {
		return nil, errors.New("pool id list cannot be empty")
	}

	ids := make([]string, len(pids))
	for i, pid := range pids {
		ids[i] = strconv.FormatUint(uint64(pid), 10)
	}
	endpoint := fmt.Sprintf("%s/users/%s?pids=%s",
		c.baseURL, url.PathEscape(actor), url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user stats request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("user stats response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user stats request rejected with status %d", resp.StatusCode)
	}

	var payload []userFarmPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUserData, err)
	}

	requested := make(map[types.PoolID]bool, len(pids))
	for _, pid := range pids {
		requested[pid] = true
	}

	out := make(map[types.PoolID]types.UserFarmState, len(payload))
	for _, entry := range payload {
		pid := types.PoolID(entry.PID)
		if !requested[pid] {
			userLogger.Debug().Uint64("poolID", entry.PID).Msg("Skipping pool id that was not requested")
			continue
		}

		staked, ok := sdkmath.NewIntFromString(entry.StakedBalance)
		if !ok || staked.IsNegative() {
			return nil, fmt.Errorf("%w: pool %d staked balance %q", ErrInvalidUserData, pid, entry.StakedBalance)
		}
		earnings, ok := sdkmath.NewIntFromString(entry.PendingEarnings)
		if !ok || earnings.IsNegative() {
			return nil, fmt.Errorf("%w: pool %d pending earnings %q", ErrInvalidUserData, pid, entry.PendingEarnings)
		}

		out[pid] = types.UserFarmState{
			PID:             pid,
			Actor:           actor,
			StakedBalance:   staked,
			PendingEarnings: earnings,
		}
	}

	userLogger.Debug().
		Str("actor", actor).
		Int("requestedPools", len(pids)).
		Int("returnedPools", len(out)).
		Msg("Fetched user farm state")

	return out, nil
}
