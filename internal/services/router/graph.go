package router

import (
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/routegraph/internal/domain"
)

type adjMap = map[solana.PublicKey][]domain.Edge

// routeCache holds final, direction-correct routes keyed by search route id.
// Results are namespaced by the intermediate filter they were computed with.
type routeCache = map[string]map[string][]domain.Route

// Graph is an immutable token/pool adjacency structure plus the route cache
// owned by this instance. A changed pool set needs a new Graph.
type Graph struct {
	adj       adjMap
	poolCount int

	mu    sync.RWMutex // guards cache only; adj is read-only
	cache routeCache
}

// BuildGraph builds the adjacency lists for a pool snapshot. Inserting the
// same pool address twice for a token is a no-op.
func BuildGraph(edges []domain.PoolEdge) *Graph {
	adj := make(adjMap)
	pools := make(map[solana.PublicKey]struct{}, len(edges))

	for _, e := range edges {
		adj[e.TokenMintA] = appendEdge(adj[e.TokenMintA], e.Address, e.TokenMintB)
		adj[e.TokenMintB] = appendEdge(adj[e.TokenMintB], e.Address, e.TokenMintA)
		pools[e.Address] = struct{}{}
	}

	return &Graph{
		adj:       adj,
		poolCount: len(pools),
		cache:     make(routeCache),
	}
}

func appendEdge(edges []domain.Edge, pool, other solana.PublicKey) []domain.Edge {
	for _, e := range edges {
		if e.PoolAddress == pool {
			return edges
		}
	}
	return append(edges, domain.Edge{PoolAddress: pool, OtherToken: other})
}

// Edges returns a copy of the adjacency list of token.
func (g *Graph) Edges(token solana.PublicKey) []domain.Edge {
	edges := g.adj[token]
	out := make([]domain.Edge, len(edges))
	copy(out, edges)
	return out
}

// HasToken reports whether any pool touches token.
func (g *Graph) HasToken(token solana.PublicKey) bool {
	_, ok := g.adj[token]
	return ok
}

func (g *Graph) TokenCount() int {
	return len(g.adj)
}

func (g *Graph) PoolCount() int {
	return g.poolCount
}

// Tokens returns every token in the graph ordered by base58 form.
func (g *Graph) Tokens() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(g.adj))
	for t := range g.adj {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// CacheSize returns the number of cached directed pairs across all filters.
func (g *Graph) CacheSize() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, bucket := range g.cache {
		n += len(bucket)
	}
	return n
}
