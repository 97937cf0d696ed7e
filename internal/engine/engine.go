package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cubdefi/farmboard/internal/datafetcher"
	"github.com/cubdefi/farmboard/internal/logger"
	"github.com/cubdefi/farmboard/internal/metrics"
	"github.com/cubdefi/farmboard/internal/types"
	"github.com/cubdefi/farmboard/internal/utils"
)

// CycleStore persists refresh-cycle history. The engine works without one.
type CycleStore interface {
	NextCycleNumber() (int, error)
	RecordCycle(cycle types.RefreshCycle) error
}

// publicSnapshot is one fully-written generation of public pool data. The map
// is never mutated after publication, so queries can read it without copying.
type publicSnapshot struct {
	fetchedAt time.Time
	farms     map[types.PoolID]types.PublicFarmState
}

// userSnapshot is one fully-written generation of a single actor's data.
type userSnapshot struct {
	actor     string
	fetchedAt time.Time
	farms     map[types.PoolID]types.UserFarmState
}

// Config holds the dependencies for creating an Engine.
type Config struct {
	Chain       types.ChainID
	Registry    []types.FarmDefinition
	Archived    map[types.PoolID]bool
	RewardToken types.Token // the native emission token whose USD price feeds every APR

	PublicSource datafetcher.PublicStateSource
	UserSource   datafetcher.UserStateSource
	PriceSource  datafetcher.PriceSource

	History CycleStore // optional

	PublicInterval time.Duration
	UserInterval   time.Duration
	WindowSize     int
}

// Engine owns the refresh loops and the shared snapshots, and answers farm
// queries against the latest fully-written generation of each source.
type Engine struct {
	logger      zerolog.Logger
	chain       types.ChainID
	registry    []types.FarmDefinition
	byPID       map[types.PoolID]types.FarmDefinition
	pids        []types.PoolID
	archived    map[types.PoolID]bool
	rewardToken types.Token

	public   datafetcher.PublicStateSource
	user     datafetcher.UserStateSource
	priceSrc datafetcher.PriceSource
	history  CycleStore

	publicInterval time.Duration
	userInterval   time.Duration

	window *Window

	refreshPublicCh chan struct{}
	refreshUserCh   chan struct{}

	mu        sync.RWMutex
	pubSnap   *publicSnapshot
	prices    types.PriceTable
	userSnap  *userSnapshot
	actor     string
	actorGen  uint64
	userReady bool
}

// New creates an Engine with dependency injection, validating the wiring the
// same way the process refuses to start on malformed static data.
func New(cfg Config) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("engine configuration validation failed: %w", err)
	}

	byPID := make(map[types.PoolID]types.FarmDefinition, len(cfg.Registry))
	pids := make([]types.PoolID, 0, len(cfg.Registry))
	for _, def := range cfg.Registry {
		byPID[def.PID] = def
		pids = append(pids, def.PID)
	}

	archived := cfg.Archived
	if archived == nil {
		archived = map[types.PoolID]bool{}
	}

	e := &Engine{
		logger:          logger.GetForComponent("farm_engine"),
		chain:           cfg.Chain,
		registry:        cfg.Registry,
		byPID:           byPID,
		pids:            pids,
		archived:        archived,
		rewardToken:     cfg.RewardToken,
		public:          cfg.PublicSource,
		user:            cfg.UserSource,
		priceSrc:        cfg.PriceSource,
		history:         cfg.History,
		publicInterval:  cfg.PublicInterval,
		userInterval:    cfg.UserInterval,
		window:          NewWindow(cfg.WindowSize),
		refreshPublicCh: make(chan struct{}, 1),
		refreshUserCh:   make(chan struct{}, 1),
		userReady:       true, // no actor connected yet
	}

	e.logger.Info().
		Int("farms", len(cfg.Registry)).
		Int("archived", len(archived)).
		Dur("publicInterval", cfg.PublicInterval).
		Dur("userInterval", cfg.UserInterval).
		Msg("Farm engine created")

	return e, nil
}

func validateConfig(cfg Config) error {
	if len(cfg.Registry) == 0 {
		return fmt.Errorf("farm registry cannot be empty")
	}
	if cfg.PublicSource == nil {
		return fmt.Errorf("public state source cannot be nil")
	}
	if cfg.UserSource == nil {
		return fmt.Errorf("user state source cannot be nil")
	}
	if cfg.PriceSource == nil {
		return fmt.Errorf("price source cannot be nil")
	}
	if cfg.PublicInterval <= 0 || cfg.UserInterval <= 0 {
		return fmt.Errorf("refresh intervals must be positive")
	}
	if len(cfg.RewardToken.Address) == 0 {
		return fmt.Errorf("reward token has no addresses")
	}
	return nil
}

// RunLoop starts both refresh loops. The first public and user fetches run
// immediately; afterwards each loop follows its own cadence plus any
// out-of-cadence triggers. The loops never stop on fetch errors, only on
// context cancellation.
func (e *Engine) RunLoop(ctx context.Context) {
	go e.publicLoop(ctx)
	go e.userLoop(ctx)
}

func (e *Engine) publicLoop(ctx context.Context) {
	e.logger.Info().Dur("interval", e.publicInterval).Msg("Starting public data refresh loop")

	ticker := time.NewTicker(e.publicInterval)
	defer ticker.Stop()

	e.refreshPublic(ctx)
	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("Public refresh loop stopped")
			return
		case <-ticker.C:
			e.refreshPublic(ctx)
		case <-e.refreshPublicCh:
			e.refreshPublic(ctx)
		}
	}
}

func (e *Engine) userLoop(ctx context.Context) {
	e.logger.Info().Dur("interval", e.userInterval).Msg("Starting user data refresh loop")

	ticker := time.NewTicker(e.userInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("User refresh loop stopped")
			return
		case <-ticker.C:
			e.refreshUser(ctx)
		case <-e.refreshUserCh:
			e.refreshUser(ctx)
		}
	}
}

// refreshPublic fetches pool aggregates and prices concurrently and publishes
// a new snapshot. On any failure the previous snapshot is kept untouched.
func (e *Engine) refreshPublic(ctx context.Context) {
	start := time.Now()
	metrics.FetchAttempt(metrics.SourcePublic)

	var (
		farms  map[types.PoolID]types.PublicFarmState
		prices types.PriceTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		farms, err = e.public.FetchPublicState(gctx, e.pids)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = e.priceSrc.FetchPrices(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		metrics.FetchFailure(metrics.SourcePublic)
		e.logger.Warn().Err(err).Msg("Public refresh failed, keeping last-known-good snapshot")
		return
	}

	// Entries for pools the registry does not know are dropped rather than
	// turned into partial views.
	var dropped []types.PoolID
	for pid := range farms {
		if _, known := e.byPID[pid]; !known {
			dropped = append(dropped, pid)
			delete(farms, pid)
		}
	}
	if len(dropped) > 0 {
		e.logger.Debug().Interface("poolIDs", dropped).Msg("Dropped entries for unknown pool ids")
	}

	now := time.Now()
	e.mu.Lock()
	e.pubSnap = &publicSnapshot{fetchedAt: now, farms: farms}
	e.prices = prices
	e.mu.Unlock()

	metrics.ObserveFetchDuration(metrics.SourcePublic, time.Since(start))
	metrics.SetSnapshotFarms(len(farms))
	metrics.SetSnapshotTime(now)

	e.logger.Info().
		Int("farms", len(farms)).
		Int("prices", len(prices)).
		Dur("took", time.Since(start)).
		Msg("Public snapshot refreshed")

	e.recordCycle(now, farms, prices, dropped)
}

// refreshUser fetches the current actor's per-pool state. The actor generation
// is captured before the fetch starts; if the actor changed while the fetch
// was in flight the completion is for stale parameters and is discarded.
func (e *Engine) refreshUser(ctx context.Context) {
	e.mu.RLock()
	actor, gen := e.actor, e.actorGen
	e.mu.RUnlock()

	if actor == "" {
		return
	}

	start := time.Now()
	metrics.FetchAttempt(metrics.SourceUser)

	states, err := e.user.FetchUserState(ctx, e.pids, actor)
	if err != nil {
		metrics.FetchFailure(metrics.SourceUser)
		e.logger.Warn().Err(err).Str("actor", actor).Msg("User refresh failed, keeping last-known-good snapshot")
		return
	}

	for pid := range states {
		if _, known := e.byPID[pid]; !known {
			delete(states, pid)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.actorGen {
		e.logger.Debug().
			Str("actor", actor).
			Str("currentActor", e.actor).
			Msg("Discarding user fetch that completed for a superseded actor")
		return
	}

	e.userSnap = &userSnapshot{actor: actor, fetchedAt: time.Now(), farms: states}
	e.userReady = true

	metrics.ObserveFetchDuration(metrics.SourceUser, time.Since(start))
	e.logger.Debug().Str("actor", actor).Int("pools", len(states)).Msg("User snapshot refreshed")
}

func (e *Engine) recordCycle(at time.Time, farms map[types.PoolID]types.PublicFarmState, prices types.PriceTable, dropped []types.PoolID) {
	if e.history == nil {
		return
	}

	number, err := e.history.NextCycleNumber()
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to advance refresh cycle counter")
		return
	}

	totalLiquidity := 0.0
	for pid, pub := range farms {
		def := e.byPID[pid]
		if pub.TotalLiquidityInQuote == nil {
			continue
		}
		key, ok := def.QuoteToken.PriceKey(e.chain)
		if !ok {
			continue
		}
		price, ok := prices[key]
		if !ok {
			continue
		}
		if usd, err := utils.DecToFloat64(pub.TotalLiquidityInQuote.Mul(price)); err == nil {
			totalLiquidity += usd
		}
	}

	cycle := types.RefreshCycle{
		CycleID:           uuid.NewString(),
		CycleNumber:       number,
		Timestamp:         at,
		FarmsRefreshed:    len(farms),
		PricesFetched:     len(prices),
		DroppedPoolIDs:    dropped,
		TotalLiquidityUSD: totalLiquidity,
	}
	if err := e.history.RecordCycle(cycle); err != nil {
		e.logger.Warn().Err(err).Msg("Failed to record refresh cycle")
	}
}

// SetActor switches the per-user data target. The previous actor's snapshot is
// dropped immediately so their balances can never leak into another session,
// and an out-of-cadence fetch is triggered for the new actor.
func (e *Engine) SetActor(actor string) {
	actor = strings.TrimSpace(actor)

	e.mu.Lock()
	if actor == e.actor {
		e.mu.Unlock()
		return
	}
	e.actor = actor
	e.actorGen++
	e.userSnap = nil
	e.userReady = actor == ""
	e.mu.Unlock()

	e.logger.Info().Str("actor", actor).Msg("Actor changed")
	if actor != "" {
		e.triggerUserRefresh()
	}
}

// NotifyTransaction tells the engine a transaction for the actor was observed
// to complete; the next user snapshot is requested immediately, but there is no
// synchronous guarantee it already reflects the transaction.
func (e *Engine) NotifyTransaction(actor string) {
	e.mu.RLock()
	current := e.actor
	e.mu.RUnlock()

	if actor != "" && actor == current {
		e.triggerUserRefresh()
	}
}

// RequestRefresh triggers an immediate out-of-cadence fetch of public data
// (and user data when an actor is connected), used when the presentation
// switches view contexts so nobody waits out a full refresh period.
func (e *Engine) RequestRefresh() {
	select {
	case e.refreshPublicCh <- struct{}{}:
	default:
	}
	e.triggerUserRefresh()
}

// RequestMore grows the presentation window by one increment.
func (e *Engine) RequestMore() {
	e.window.More()
}

func (e *Engine) triggerUserRefresh() {
	select {
	case e.refreshUserCh <- struct{}{}:
	default:
	}
}

// QueryOptions selects, orders and windows the farm views.
type QueryOptions struct {
	Context    types.ViewContext
	Category   types.PoolCategory
	Sort       types.SortKey
	StakedOnly bool
	Search     string

	// WindowSize overrides the engine-managed growing window when positive.
	WindowSize int
}

// QueryResult is an ordered, windowed farm list.
type QueryResult struct {
	Farms         []types.FarmView `json:"farms"`
	Total         int              `json:"total"`
	UserDataReady bool             `json:"user_data_ready"`
}

// Query builds fresh views from the latest snapshots, filters them to the
// requested context and category, ranks them and returns the current window.
func (e *Engine) Query(opts QueryOptions) QueryResult {
	e.mu.RLock()
	pubSnap := e.pubSnap
	prices := e.prices
	userSnap := e.userSnap
	ready := e.userReady
	e.mu.RUnlock()

	if pubSnap == nil {
		return QueryResult{Farms: []types.FarmView{}, UserDataReady: ready}
	}

	rewardPrice := e.rewardPrice(prices)
	active := opts.Context == types.ViewActive

	views := make([]types.FarmView, 0, len(e.registry))
	for _, def := range e.registry {
		pub, ok := pubSnap.farms[def.PID]
		if !ok {
			continue
		}
		if Classify(def.PID, pub, e.archived) != opts.Context {
			continue
		}
		if def.Category != opts.Category {
			continue
		}

		user := lookupUser(userSnap, def.PID)
		if opts.StakedOnly && !isStaked(user) {
			continue
		}
		if !MatchesSearch(def, opts.Search) {
			continue
		}

		views = append(views, BuildFarmView(def, pub, user, prices, rewardPrice, e.chain, active))
	}

	Rank(views, opts.Sort)

	total := len(views)
	size := opts.WindowSize
	if size <= 0 {
		size = e.window.SizeFor(filterFingerprint(opts), total)
	}
	if size > total {
		size = total
	}

	return QueryResult{
		Farms:         views[:size],
		Total:         total,
		UserDataReady: ready,
	}
}

// FarmByPID builds the view for a single farm in its natural context.
func (e *Engine) FarmByPID(pid types.PoolID) (types.FarmView, bool) {
	def, known := e.byPID[pid]
	if !known {
		return types.FarmView{}, false
	}

	e.mu.RLock()
	pubSnap := e.pubSnap
	prices := e.prices
	userSnap := e.userSnap
	e.mu.RUnlock()

	if pubSnap == nil {
		return types.FarmView{}, false
	}
	pub, ok := pubSnap.farms[pid]
	if !ok {
		return types.FarmView{}, false
	}

	active := Classify(pid, pub, e.archived) == types.ViewActive
	return BuildFarmView(def, pub, lookupUser(userSnap, pid), prices, e.rewardPrice(prices), e.chain, active), true
}

// rewardPrice looks up the native reward token's USD price, nil when absent.
func (e *Engine) rewardPrice(prices types.PriceTable) *sdkmath.LegacyDec {
	key, ok := e.rewardToken.PriceKey(e.chain)
	if !ok {
		return nil
	}
	price, ok := prices[key]
	if !ok {
		return nil
	}
	return &price
}

func lookupUser(snap *userSnapshot, pid types.PoolID) *types.UserFarmState {
	if snap == nil {
		return nil
	}
	state, ok := snap.farms[pid]
	if !ok {
		return nil
	}
	return &state
}

// filterFingerprint identifies the filter/view selection. Sort order and data
// refreshes are deliberately excluded: only a genuine filter change restarts
// the window.
func filterFingerprint(opts QueryOptions) string {
	return fmt.Sprintf("%s|%s|%t|%s",
		opts.Context, opts.Category, opts.StakedOnly, strings.ToLower(strings.TrimSpace(opts.Search)))
}
