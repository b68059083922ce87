package router

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/metrics"
)

// PoolFetcher resolves pool addresses into decoded pool state in one batched
// call. Addresses that do not resolve to a pool are absent from the result
// (or map to nil); an error means the lookup itself failed.
type PoolFetcher interface {
	FetchPools(ctx context.Context, addresses []solana.PublicKey) (map[solana.PublicKey]*domain.Pool, error)
}

// BuildGraphWithFetch fetches the given pools and builds a graph from every
// address that resolved. Unresolved addresses are dropped without error.
func BuildGraphWithFetch(ctx context.Context, addresses []solana.PublicKey, fetcher PoolFetcher) (*Graph, error) {
	pools, err := fetcher.FetchPools(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pools: %w", err)
	}
	return BuildGraphFromResolved(addresses, pools), nil
}

// BuildGraphFromResolved builds a graph from the addresses that resolved in
// pools, in address order. Missing or nil entries are dropped.
func BuildGraphFromResolved(addresses []solana.PublicKey, pools map[solana.PublicKey]*domain.Pool) *Graph {
	edges := make([]domain.PoolEdge, 0, len(addresses))
	dropped := 0
	for _, addr := range addresses {
		pool := pools[addr]
		if pool == nil {
			dropped++
			continue
		}
		edges = append(edges, pool.Edge())
	}

	if dropped > 0 {
		metrics.DroppedPools.Add(float64(dropped))
		log.Warn().
			Int("requested", len(addresses)).
			Int("dropped", dropped).
			Msg("[GraphBuilder] some pool addresses did not resolve and were left out of the graph")
	}

	return BuildGraph(edges)
}
