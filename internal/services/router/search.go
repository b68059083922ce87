package router

import (
	"sort"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/metrics"
)

// walk is an undirected path discovered from the canonical start token.
type walk []solana.PublicKey

// intermediateFilter is the compiled form of SearchOptions.IntermediateTokens.
type intermediateFilter struct {
	key     string
	allowed map[solana.PublicKey]struct{} // nil allows every token
}

const unrestrictedFilterKey = "*"

func newIntermediateFilter(opts *domain.SearchOptions) intermediateFilter {
	if opts == nil || opts.IntermediateTokens == nil {
		return intermediateFilter{key: unrestrictedFilterKey}
	}

	allowed := make(map[solana.PublicKey]struct{}, len(opts.IntermediateTokens))
	names := make([]string, 0, len(opts.IntermediateTokens))
	for _, t := range opts.IntermediateTokens {
		if _, dup := allowed[t]; dup {
			continue
		}
		allowed[t] = struct{}{}
		names = append(names, t.String())
	}
	sort.Strings(names)

	return intermediateFilter{
		key:     "allow:" + strings.Join(names, ","),
		allowed: allowed,
	}
}

func (f intermediateFilter) allows(token solana.PublicKey) bool {
	if f.allowed == nil {
		return true
	}
	_, ok := f.allowed[token]
	return ok
}

// GetRoute returns every 1-hop and 2-hop route from start to end.
func (g *Graph) GetRoute(start, end solana.PublicKey, opts *domain.SearchOptions) []domain.Route {
	entries := g.GetRoutesForPairs([]domain.TokenPair{{Start: start, End: end}}, opts)
	return entries[0].Routes
}

// GetRoutesForPairs resolves routes for a batch of pairs and returns one
// entry per pair in input order. Walks are computed once per unordered pair
// per batch; results are cached per directed pair for the graph's lifetime.
func (g *Graph) GetRoutesForPairs(pairs []domain.TokenPair, opts *domain.SearchOptions) []domain.RouteSearchEntry {
	startedAt := time.Now()
	defer func() {
		metrics.RouteSearchDuration.Observe(time.Since(startedAt).Seconds())
	}()

	filter := newIntermediateFilter(opts)
	results := make([]domain.RouteSearchEntry, len(pairs))
	pending := make([]int, 0, len(pairs))

	g.mu.RLock()
	cached := g.cache[filter.key]
	for i, p := range pairs {
		id := SearchRouteID(p.Start, p.End)
		results[i].ID = id

		if p.Start == p.End {
			results[i].Routes = []domain.Route{}
			continue
		}
		if routes, ok := cached[id]; ok {
			results[i].Routes = cloneRoutes(routes)
			metrics.RouteCacheHits.Inc()
			continue
		}
		pending = append(pending, i)
	}
	g.mu.RUnlock()

	if len(pending) == 0 {
		return results
	}

	walks := make(map[string][]walk, len(pending))
	computed := make(map[string][]domain.Route, len(pending))

	for _, i := range pending {
		p := pairs[i]
		internalStart, internalEnd, internalID := canonicalPair(p.Start, p.End)

		w, ok := walks[internalID]
		if !ok {
			w = g.findWalks(internalStart, internalEnd, filter)
			walks[internalID] = w
		}

		routes := walksToRoutes(w, p.Start, p.End, internalStart != p.Start)
		computed[results[i].ID] = routes
		results[i].Routes = cloneRoutes(routes)

		metrics.RouteCacheMisses.Inc()
		metrics.RoutesFound.Observe(float64(len(routes)))
	}

	g.mu.Lock()
	bucket, ok := g.cache[filter.key]
	if !ok {
		bucket = make(map[string][]domain.Route, len(computed))
		g.cache[filter.key] = bucket
	}
	for id, routes := range computed {
		if _, exists := bucket[id]; !exists {
			bucket[id] = routes
		}
	}
	g.mu.Unlock()

	return results
}

// findWalks lists direct pools between start and end followed by 2-hop
// walks through a permitted intermediate token.
func (g *Graph) findWalks(start, end solana.PublicKey, filter intermediateFilter) []walk {
	startEdges := g.adj[start]
	endEdges := g.adj[end]
	if len(startEdges) == 0 || len(endEdges) == 0 {
		return nil
	}

	var walks []walk
	direct := make(map[solana.PublicKey]struct{})

	for _, se := range startEdges {
		for _, ee := range endEdges {
			if se.PoolAddress == ee.PoolAddress {
				direct[se.PoolAddress] = struct{}{}
				walks = append(walks, walk{se.PoolAddress})
				break
			}
		}
	}

	for _, se := range startEdges {
		if _, ok := direct[se.PoolAddress]; ok {
			continue
		}
		mid := se.OtherToken
		if mid == start || mid == end || !filter.allows(mid) {
			continue
		}
		for _, ee := range endEdges {
			if ee.OtherToken == mid {
				walks = append(walks, walk{se.PoolAddress, ee.PoolAddress})
			}
		}
	}

	return walks
}

// walksToRoutes wraps walks as routes for the requested direction. Hops are
// always freshly allocated so no two routes share backing arrays.
func walksToRoutes(walks []walk, start, end solana.PublicKey, reverse bool) []domain.Route {
	routes := make([]domain.Route, 0, len(walks))
	for _, w := range walks {
		hops := make([]domain.Hop, len(w))
		for i, pool := range w {
			if reverse {
				hops[len(w)-1-i] = domain.Hop{PoolAddress: pool}
			} else {
				hops[i] = domain.Hop{PoolAddress: pool}
			}
		}
		routes = append(routes, domain.Route{
			StartTokenMint: start,
			EndTokenMint:   end,
			Hops:           hops,
		})
	}
	return routes
}

func cloneRoutes(routes []domain.Route) []domain.Route {
	out := make([]domain.Route, len(routes))
	for i, r := range routes {
		out[i] = r.Clone()
	}
	return out
}
