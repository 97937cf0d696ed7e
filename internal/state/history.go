// ./internal/state/history.go
package state

import (
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver for array support
	"github.com/rs/zerolog/log"

	"github.com/cubdefi/farmboard/internal/types"
)

// History exposes the refresh-cycle tables through the engine's CycleStore
// contract. It carries no state of its own; the global pool does the work.
type History struct{}

func (History) NextCycleNumber() (int, error) {
	return IncrementCycleNumber()
}

func (History) RecordCycle(cycle types.RefreshCycle) error {
	return SaveRefreshCycle(cycle)
}

// SaveRefreshCycle saves one completed refresh cycle to the database.
func SaveRefreshCycle(cycle types.RefreshCycle) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	dropped := make([]int64, 0, len(cycle.DroppedPoolIDs))
	for _, pid := range cycle.DroppedPoolIDs {
		dropped = append(dropped, int64(pid))
	}

	query := `
		INSERT INTO refresh_cycles (
			cycle_id, cycle_number, cycle_timestamp,
			farms_refreshed, prices_fetched, dropped_pool_ids, total_liquidity_usd
		) VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := DB.Exec(
		query,
		cycle.CycleID, cycle.CycleNumber, cycle.Timestamp,
		cycle.FarmsRefreshed, cycle.PricesFetched, pq.Array(dropped), cycle.TotalLiquidityUSD,
	)
	if err != nil {
		return fmt.Errorf("failed to save refresh cycle: %w", err)
	}

	log.Debug().
		Str("cycle_id", cycle.CycleID).
		Int("cycle_number", cycle.CycleNumber).
		Int("farms_refreshed", cycle.FarmsRefreshed).
		Msg("Refresh cycle saved to database")

	return nil
}

// RecentRefreshCycles returns up to limit most recent cycles, newest first.
func RecentRefreshCycles(limit int) ([]types.RefreshCycle, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT cycle_id, cycle_number, cycle_timestamp,
		       farms_refreshed, prices_fetched, dropped_pool_ids, total_liquidity_usd
		FROM refresh_cycles
		ORDER BY cycle_timestamp DESC
		LIMIT $1;
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query refresh cycles: %w", err)
	}
	defer rows.Close()

	var cycles []types.RefreshCycle
	for rows.Next() {
		var (
			cycle   types.RefreshCycle
			dropped []int64
		)
		err := rows.Scan(
			&cycle.CycleID, &cycle.CycleNumber, &cycle.Timestamp,
			&cycle.FarmsRefreshed, &cycle.PricesFetched, pq.Array(&dropped), &cycle.TotalLiquidityUSD,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh cycle row: %w", err)
		}
		for _, pid := range dropped {
			cycle.DroppedPoolIDs = append(cycle.DroppedPoolIDs, types.PoolID(pid))
		}
		cycles = append(cycles, cycle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating refresh cycle rows: %w", err)
	}

	return cycles, nil
}
