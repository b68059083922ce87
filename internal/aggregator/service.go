package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/routegraph/internal/adapters/persistence"
	"github.com/hxuan190/routegraph/internal/config"
	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/metrics"
	"github.com/hxuan190/routegraph/internal/services"
	"github.com/hxuan190/routegraph/internal/services/market"
	"github.com/hxuan190/routegraph/internal/services/router"
)

const GRAPH_SERVICE = "graph-service"

var (
	ErrGraphNotReady = errors.New("routing graph is not built yet")
	ErrUnknownToken  = errors.New("token not in graph")
)

// PoolStore persists pool snapshots between restarts.
type PoolStore interface {
	ReplacePools(pools []*domain.Pool) error
	LoadAllPools() ([]*domain.Pool, error)
	Close() error
}

// cachingFetcher is implemented by fetchers that keep decoded pools between
// calls. Refresh evicts the refreshed addresses so pool state is reread.
type cachingFetcher interface {
	Forget(addresses ...solana.PublicKey)
	CachedPools() int
}

var _ cachingFetcher = (*market.PoolFetcher)(nil)

type GraphSource string

const (
	SourceSnapshot GraphSource = "snapshot"
	SourceRPC      GraphSource = "rpc"
)

// GraphStats describes the live graph instance.
type GraphStats struct {
	PoolCount    int         `json:"poolCount"`
	TokenCount   int         `json:"tokenCount"`
	CachedRoutes int         `json:"cachedRoutes"`
	Source       GraphSource `json:"source"`
	BuiltAt      time.Time   `json:"builtAt"`
}

type liveGraph struct {
	graph   *router.Graph
	source  GraphSource
	builtAt time.Time
}

// Service owns the live routing graph. A refresh builds a new graph instance
// and swaps it in; queries always run against one consistent instance.
type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	config  *config.GraphConfig
	fetcher router.PoolFetcher
	store   PoolStore

	current   atomic.Pointer[liveGraph]
	refreshMu sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService wires a service without the DI container. store may be nil.
func NewService(cfg *config.GraphConfig, fetcher router.PoolFetcher, store PoolStore) *Service {
	svc := &Service{config: cfg, fetcher: fetcher, store: store}
	svc.logger = services.NewServiceLogger(svc)
	return svc
}

func (svc *Service) ID() string {
	return GRAPH_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.config = c.GetConfig(config.GRAPH_CONFIG_KEY).(*config.GraphConfig)
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)

	svc.fetcher = market.NewPoolFetcher(rpc.New(rpcConfig.RPCUrl), market.FetcherOptions{
		BatchSize:         rpcConfig.BatchSize,
		RequestsPerSecond: float64(rpcConfig.RateLimit),
		CacheSize:         rpcConfig.PoolCacheSize,
	})

	if svc.config.PersistenceEnabled {
		storage, err := persistence.NewStorage(svc.config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open pool storage: %w", err)
		}
		svc.store = storage
	}
	return nil
}

func (svc *Service) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel

	svc.loadSnapshot()

	if len(svc.config.PoolAddresses) > 0 {
		if svc.current.Load() == nil {
			if err := svc.Refresh(ctx); err != nil {
				return err
			}
		} else {
			svc.wg.Add(1)
			go func() {
				defer svc.wg.Done()
				if err := svc.Refresh(ctx); err != nil {
					svc.logger.Method("Start").Warn().Err(err).Msg("background refresh after snapshot load failed")
				}
			}()
		}
	}

	if svc.current.Load() == nil {
		svc.logger.Method("Start").Warn().Msg("no pools configured and no snapshot found, graph stays empty until refresh")
	}

	if svc.config.RefreshInterval > 0 {
		svc.wg.Add(1)
		go svc.refreshLoop(ctx, svc.config.RefreshInterval)
	}
	return nil
}

func (svc *Service) Stop() error {
	if svc.cancel != nil {
		svc.cancel()
	}
	svc.wg.Wait()

	if svc.store != nil {
		return svc.store.Close()
	}
	return nil
}

func (svc *Service) loadSnapshot() {
	if svc.store == nil {
		return
	}

	pools, err := svc.store.LoadAllPools()
	if err != nil {
		svc.logger.Method("loadSnapshot").Error().Err(err).Msg("failed to load pool snapshot")
		return
	}
	if len(pools) == 0 {
		return
	}

	svc.publish(router.BuildGraph(domain.PoolEdges(pools)), SourceSnapshot)
}

func (svc *Service) refreshLoop(ctx context.Context, interval time.Duration) {
	defer svc.wg.Done()
	logger := svc.logger.Method("refreshLoop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Refresh(ctx); err != nil {
				logger.Warn().Err(err).Msg("periodic graph refresh failed")
			}
		}
	}
}

// Refresh fetches the configured pools, builds a fresh graph and swaps it
// in. With no configured addresses the pools of the live graph's snapshot
// are refetched. Cached pool state is evicted first so every refresh reads
// RPC. A failed refresh keeps the previous graph.
func (svc *Service) Refresh(ctx context.Context) error {
	svc.refreshMu.Lock()
	defer svc.refreshMu.Unlock()

	logger := svc.logger.Method("Refresh")
	startedAt := time.Now()

	addresses, err := svc.refreshAddresses()
	if err != nil {
		return err
	}

	if cf, ok := svc.fetcher.(cachingFetcher); ok {
		cf.Forget(addresses...)
		logger.Debug().Int("cached", cf.CachedPools()).Int("refreshing", len(addresses)).Msg("evicted cached pools before refresh")
	}

	pools, err := svc.fetcher.FetchPools(ctx, addresses)
	if err != nil {
		return fmt.Errorf("failed to fetch pools: %w", err)
	}

	graph := router.BuildGraphFromResolved(addresses, pools)
	metrics.GraphBuildDuration.Observe(time.Since(startedAt).Seconds())
	svc.publish(graph, SourceRPC)

	if svc.store != nil {
		resolved := make([]*domain.Pool, 0, len(pools))
		for _, p := range pools {
			if p != nil {
				resolved = append(resolved, p)
			}
		}
		if err := svc.store.ReplacePools(resolved); err != nil {
			logger.Error().Err(err).Msg("failed to persist pool snapshot")
		}
	}
	return nil
}

func (svc *Service) refreshAddresses() ([]solana.PublicKey, error) {
	if len(svc.config.PoolAddresses) > 0 {
		return svc.config.PoolAddresses, nil
	}
	if svc.store == nil {
		return nil, errors.New("no pool addresses configured")
	}

	pools, err := svc.store.LoadAllPools()
	if err != nil {
		return nil, fmt.Errorf("failed to load pool snapshot: %w", err)
	}
	if len(pools) == 0 {
		return nil, errors.New("no pool addresses configured and snapshot is empty")
	}

	addresses := make([]solana.PublicKey, 0, len(pools))
	for _, p := range pools {
		addresses = append(addresses, p.Address)
	}
	return addresses, nil
}

func (svc *Service) publish(graph *router.Graph, source GraphSource) {
	svc.current.Store(&liveGraph{graph: graph, source: source, builtAt: time.Now()})

	metrics.GraphBuilds.Inc()
	metrics.GraphPoolCount.Set(float64(graph.PoolCount()))
	metrics.GraphTokenCount.Set(float64(graph.TokenCount()))
	metrics.RouteCacheSize.Set(0)

	svc.logger.Method("publish").Info().
		Str("source", string(source)).
		Int("pools", graph.PoolCount()).
		Int("tokens", graph.TokenCount()).
		Msg("routing graph published")
}

// Graph returns the live graph instance.
func (svc *Service) Graph() (*router.Graph, error) {
	live := svc.current.Load()
	if live == nil {
		return nil, ErrGraphNotReady
	}
	return live.graph, nil
}

func (svc *Service) searchOptions(opts *domain.SearchOptions) *domain.SearchOptions {
	if opts != nil {
		return opts
	}
	return &domain.SearchOptions{IntermediateTokens: svc.config.IntermediateTokens}
}

// GetRoute returns every 1-hop and 2-hop route between two tokens. A nil
// opts applies the configured default intermediate tokens.
func (svc *Service) GetRoute(start, end solana.PublicKey, opts *domain.SearchOptions) ([]domain.Route, error) {
	graph, err := svc.Graph()
	if err != nil {
		return nil, err
	}
	routes := graph.GetRoute(start, end, svc.searchOptions(opts))
	metrics.RouteCacheSize.Set(float64(graph.CacheSize()))
	return routes, nil
}

func (svc *Service) GetRoutesForPairs(pairs []domain.TokenPair, opts *domain.SearchOptions) ([]domain.RouteSearchEntry, error) {
	graph, err := svc.Graph()
	if err != nil {
		return nil, err
	}
	entries := graph.GetRoutesForPairs(pairs, svc.searchOptions(opts))
	metrics.RouteCacheSize.Set(float64(graph.CacheSize()))
	return entries, nil
}

func (svc *Service) TokenEdges(mint solana.PublicKey) ([]domain.Edge, error) {
	graph, err := svc.Graph()
	if err != nil {
		return nil, err
	}
	if !graph.HasToken(mint) {
		return nil, ErrUnknownToken
	}
	return graph.Edges(mint), nil
}

func (svc *Service) Stats() (GraphStats, error) {
	live := svc.current.Load()
	if live == nil {
		return GraphStats{}, ErrGraphNotReady
	}
	return GraphStats{
		PoolCount:    live.graph.PoolCount(),
		TokenCount:   live.graph.TokenCount(),
		CachedRoutes: live.graph.CacheSize(),
		Source:       live.source,
		BuiltAt:      live.builtAt,
	}, nil
}
