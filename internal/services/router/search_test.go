package router

import (
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/routegraph/internal/domain"
)

func hopsOf(r domain.Route) []solana.PublicKey {
	return r.PoolAddresses()
}

func allHops(routes []domain.Route) [][]solana.PublicKey {
	out := make([][]solana.PublicKey, len(routes))
	for i, r := range routes {
		out[i] = hopsOf(r)
	}
	return out
}

func TestGetRouteDirectPool(t *testing.T) {
	p1 := newKey()
	g := BuildGraph([]domain.PoolEdge{edge(p1, usdcMint, solMint)})

	routes := g.GetRoute(usdcMint, solMint, nil)
	require.Len(t, routes, 1)
	assert.Equal(t, usdcMint, routes[0].StartTokenMint)
	assert.Equal(t, solMint, routes[0].EndTokenMint)
	assert.Equal(t, []solana.PublicKey{p1}, hopsOf(routes[0]))

	reverse := g.GetRoute(solMint, usdcMint, nil)
	require.Len(t, reverse, 1)
	assert.Equal(t, solMint, reverse[0].StartTokenMint)
	assert.Equal(t, usdcMint, reverse[0].EndTokenMint)
	assert.Equal(t, []solana.PublicKey{p1}, hopsOf(reverse[0]))
}

// USDC-SOL and SOL-ORCA give a single two hop route in either direction.
func TestGetRouteTwoHopScenario(t *testing.T) {
	p1, p2 := newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{
		edge(p1, usdcMint, solMint),
		edge(p2, solMint, orcaMint),
	})

	forward := g.GetRoute(usdcMint, orcaMint, nil)
	require.Len(t, forward, 1)
	assert.Equal(t, []solana.PublicKey{p1, p2}, hopsOf(forward[0]))
	assert.Equal(t, usdcMint, forward[0].StartTokenMint)
	assert.Equal(t, orcaMint, forward[0].EndTokenMint)

	backward := g.GetRoute(orcaMint, usdcMint, nil)
	require.Len(t, backward, 1)
	assert.Equal(t, []solana.PublicKey{p2, p1}, hopsOf(backward[0]))
	assert.Equal(t, orcaMint, backward[0].StartTokenMint)
	assert.Equal(t, usdcMint, backward[0].EndTokenMint)
}

func TestGetRouteTwoHopRandomTokens(t *testing.T) {
	// Random mints exercise both canonical orderings of the queried pair.
	for i := 0; i < 20; i++ {
		a, x, b := newKey(), newKey(), newKey()
		pax, pxb := newKey(), newKey()
		g := BuildGraph([]domain.PoolEdge{edge(pax, a, x), edge(pxb, x, b)})

		assert.Equal(t, [][]solana.PublicKey{{pax, pxb}}, allHops(g.GetRoute(a, b, nil)))
		assert.Equal(t, [][]solana.PublicKey{{pxb, pax}}, allHops(g.GetRoute(b, a, nil)))
	}
}

func TestGetRouteParallelPools(t *testing.T) {
	a, b := newKey(), newKey()
	p1, p2 := newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{edge(p1, a, b), edge(p2, a, b)})

	routes := g.GetRoute(a, b, nil)
	require.Len(t, routes, 2)
	assert.ElementsMatch(t, [][]solana.PublicKey{{p1}, {p2}}, allHops(routes))
}

func TestGetRouteEmptyGraph(t *testing.T) {
	g := BuildGraph(nil)

	routes := g.GetRoute(newKey(), newKey(), nil)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}

func TestGetRouteEmptyAllowListSuppressesTwoHop(t *testing.T) {
	a, x, b := newKey(), newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{edge(newKey(), a, x), edge(newKey(), x, b)})

	routes := g.GetRoute(a, b, &domain.SearchOptions{IntermediateTokens: []solana.PublicKey{}})
	assert.Empty(t, routes)
}

func TestGetRouteSelfPair(t *testing.T) {
	g := BuildGraph([]domain.PoolEdge{edge(newKey(), usdcMint, solMint)})

	routes := g.GetRoute(usdcMint, usdcMint, nil)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)

	unknown := newKey()
	assert.Empty(t, g.GetRoute(unknown, unknown, nil))
	assert.Zero(t, g.CacheSize())
}

func TestGetRouteReturnsDirectAndTwoHopUnranked(t *testing.T) {
	direct, viaSolIn, viaSolOut := newKey(), newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{
		edge(direct, usdcMint, orcaMint),
		edge(viaSolIn, usdcMint, solMint),
		edge(viaSolOut, solMint, orcaMint),
	})

	assert.Equal(t,
		[][]solana.PublicKey{{direct}, {viaSolIn, viaSolOut}},
		allHops(g.GetRoute(usdcMint, orcaMint, nil)))
	assert.Equal(t,
		[][]solana.PublicKey{{direct}, {viaSolOut, viaSolIn}},
		allHops(g.GetRoute(orcaMint, usdcMint, nil)))
}

func TestGetRouteDirectPoolNotUsedAsFirstHop(t *testing.T) {
	// The direct pool also appears in the start token's adjacency list, it
	// must not be combined into a 2-hop walk.
	a, b := newKey(), newKey()
	direct := newKey()
	g := BuildGraph([]domain.PoolEdge{edge(direct, a, b)})

	for _, r := range g.GetRoute(a, b, nil) {
		assert.Len(t, r.Hops, 1)
	}
}

func TestGetRouteIntermediateFilter(t *testing.T) {
	a, b, x, y := newKey(), newKey(), newKey(), newKey()
	pax, pxb, pay, pyb := newKey(), newKey(), newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{
		edge(pax, a, x),
		edge(pxb, x, b),
		edge(pay, a, y),
		edge(pyb, y, b),
	})

	onlyY := &domain.SearchOptions{IntermediateTokens: []solana.PublicKey{y}}
	assert.Equal(t, [][]solana.PublicKey{{pay, pyb}}, allHops(g.GetRoute(a, b, onlyY)))
	assert.Equal(t, [][]solana.PublicKey{{pyb, pay}}, allHops(g.GetRoute(b, a, onlyY)))

	// Unfiltered results are cached separately from filtered ones.
	assert.ElementsMatch(t,
		[][]solana.PublicKey{{pax, pxb}, {pay, pyb}},
		allHops(g.GetRoute(a, b, nil)))

	// Filter order and duplicates do not change the result.
	both := &domain.SearchOptions{IntermediateTokens: []solana.PublicKey{y, x, y}}
	assert.ElementsMatch(t,
		[][]solana.PublicKey{{pax, pxb}, {pay, pyb}},
		allHops(g.GetRoute(a, b, both)))
}

func TestIntermediateFilterDoesNotRestrictDirectPools(t *testing.T) {
	a, b := newKey(), newKey()
	direct := newKey()
	g := BuildGraph([]domain.PoolEdge{edge(direct, a, b)})

	routes := g.GetRoute(a, b, &domain.SearchOptions{IntermediateTokens: []solana.PublicKey{}})
	assert.Equal(t, [][]solana.PublicKey{{direct}}, allHops(routes))
}

func TestGetRouteIsIdempotentAndCached(t *testing.T) {
	p1, p2 := newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{
		edge(p1, usdcMint, solMint),
		edge(p2, solMint, orcaMint),
	})

	first := g.GetRoute(usdcMint, orcaMint, nil)
	assert.Equal(t, 1, g.CacheSize())

	second := g.GetRoute(usdcMint, orcaMint, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.CacheSize())

	g.GetRoute(orcaMint, usdcMint, nil)
	assert.Equal(t, 2, g.CacheSize())
}

func TestGetRoutesForPairsMirroredEntriesDoNotAlias(t *testing.T) {
	p1, p2 := newKey(), newKey()
	g := BuildGraph([]domain.PoolEdge{
		edge(p1, usdcMint, solMint),
		edge(p2, solMint, orcaMint),
	})

	entries := g.GetRoutesForPairs([]domain.TokenPair{
		{Start: usdcMint, End: orcaMint},
		{Start: orcaMint, End: usdcMint},
	}, nil)
	require.Len(t, entries, 2)
	require.Len(t, entries[0].Routes, 1)
	require.Len(t, entries[1].Routes, 1)

	forward := entries[0].Routes[0].Hops
	backward := entries[1].Routes[0].Hops
	require.Len(t, forward, 2)
	require.Len(t, backward, 2)
	assert.Equal(t, forward[0], backward[1])
	assert.Equal(t, forward[1], backward[0])

	forward[0].PoolAddress = newKey()
	assert.Equal(t, p2, backward[0].PoolAddress)
	assert.Equal(t, p1, backward[1].PoolAddress)

	// Mutating a returned route must not leak into the cache either.
	assert.Equal(t, [][]solana.PublicKey{{p1, p2}}, allHops(g.GetRoute(usdcMint, orcaMint, nil)))
	assert.Equal(t, [][]solana.PublicKey{{p2, p1}}, allHops(g.GetRoute(orcaMint, usdcMint, nil)))
}

func TestGetRoutesForPairsPreservesInputOrder(t *testing.T) {
	p1 := newKey()
	g := BuildGraph([]domain.PoolEdge{edge(p1, usdcMint, solMint)})
	// Warm one direction so the batch mixes cached and computed pairs.
	g.GetRoute(solMint, usdcMint, nil)

	pairs := []domain.TokenPair{
		{Start: usdcMint, End: solMint},
		{Start: orcaMint, End: solMint},
		{Start: solMint, End: usdcMint},
		{Start: usdcMint, End: usdcMint},
		{Start: usdcMint, End: solMint},
	}
	entries := g.GetRoutesForPairs(pairs, nil)
	require.Len(t, entries, len(pairs))

	for i, p := range pairs {
		assert.Equal(t, SearchRouteID(p.Start, p.End), entries[i].ID)
	}
	assert.Len(t, entries[0].Routes, 1)
	assert.Empty(t, entries[1].Routes)
	assert.Len(t, entries[2].Routes, 1)
	assert.Empty(t, entries[3].Routes)
	assert.Equal(t, entries[0].Routes, entries[4].Routes)
}

func TestGetRoutesForPairsEmptyInput(t *testing.T) {
	g := BuildGraph(nil)
	assert.Empty(t, g.GetRoutesForPairs(nil, nil))
}

func TestGetRoutesForPairsConcurrentReaders(t *testing.T) {
	tokens := make([]solana.PublicKey, 12)
	for i := range tokens {
		tokens[i] = newKey()
	}
	var edges []domain.PoolEdge
	for i := 0; i < len(tokens)-1; i++ {
		edges = append(edges, edge(newKey(), tokens[i], tokens[i+1]))
		edges = append(edges, edge(newKey(), tokens[0], tokens[i+1]))
	}
	g := BuildGraph(edges)

	pairs := make([]domain.TokenPair, 0, len(tokens)*len(tokens))
	for _, a := range tokens {
		for _, b := range tokens {
			pairs = append(pairs, domain.TokenPair{Start: a, End: b})
		}
	}
	want := BuildGraph(edges).GetRoutesForPairs(pairs, nil)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := g.GetRoutesForPairs(pairs, nil)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestNewIntermediateFilterKeys(t *testing.T) {
	x, y := newKey(), newKey()

	assert.Equal(t, unrestrictedFilterKey, newIntermediateFilter(nil).key)
	assert.Equal(t, unrestrictedFilterKey, newIntermediateFilter(&domain.SearchOptions{}).key)
	assert.Equal(t, "allow:", newIntermediateFilter(&domain.SearchOptions{IntermediateTokens: []solana.PublicKey{}}).key)
	assert.Equal(t,
		newIntermediateFilter(&domain.SearchOptions{IntermediateTokens: []solana.PublicKey{x, y}}).key,
		newIntermediateFilter(&domain.SearchOptions{IntermediateTokens: []solana.PublicKey{y, x, x}}).key)
}

func buildBenchGraph(tokenCount, poolCount int) (*Graph, []solana.PublicKey) {
	tokens := make([]solana.PublicKey, tokenCount)
	for i := range tokens {
		tokens[i] = newKey()
	}
	edges := make([]domain.PoolEdge, 0, poolCount)
	for i := 0; i < poolCount; i++ {
		a := tokens[i%tokenCount]
		b := tokens[(i*7+1)%tokenCount]
		if a == b {
			b = tokens[(i+1)%tokenCount]
		}
		edges = append(edges, edge(newKey(), a, b))
	}
	return BuildGraph(edges), tokens
}

// BenchmarkFindWalks benchmarks uncached walk discovery
func BenchmarkFindWalks(b *testing.B) {
	g, tokens := buildBenchGraph(200, 2000)
	filter := newIntermediateFilter(nil)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = g.findWalks(tokens[i%len(tokens)], tokens[(i+3)%len(tokens)], filter)
	}
}

// BenchmarkGetRouteCached benchmarks a cache hit
func BenchmarkGetRouteCached(b *testing.B) {
	g, tokens := buildBenchGraph(200, 2000)
	g.GetRoute(tokens[0], tokens[1], nil)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = g.GetRoute(tokens[0], tokens[1], nil)
	}
}
