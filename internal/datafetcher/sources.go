/*

The engine consumes its three upstream feeds through these interfaces so the
refresh orchestration can be tested with injected completion order, and so the
concrete transport (an aggregation API today) can change without touching the
engine.

*/

package datafetcher

import (
	"context"
	"errors"

	"github.com/cubdefi/farmboard/internal/types"
)

var (
	ErrInvalidPoolData  = errors.New("invalid pool data")
	ErrInvalidUserData  = errors.New("invalid user data")
	ErrInvalidPriceData = errors.New("invalid price data received")
)

// PublicStateSource returns per-pool on-chain aggregates for the requested
// pool ids. Unknown ids are simply absent from the result.
type PublicStateSource interface {
	FetchPublicState(ctx context.Context, pids []types.PoolID) (map[types.PoolID]types.PublicFarmState, error)
}

// UserStateSource returns per-pool aggregates for one actor.
type UserStateSource interface {
	FetchUserState(ctx context.Context, pids []types.PoolID, actor string) (map[types.PoolID]types.UserFarmState, error)
}

// PriceSource returns USD prices keyed by lower-cased token address.
type PriceSource interface {
	FetchPrices(ctx context.Context) (types.PriceTable, error)
}
