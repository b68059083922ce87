package domain

import (
	"github.com/gagliardetto/solana-go"
)

type Hop struct {
	PoolAddress solana.PublicKey `json:"poolAddress"`
}

// Route is an ordered path from StartTokenMint to EndTokenMint.
// Hop order is the swap execution order. Routes handed out by the router
// are values owned by the caller.
type Route struct {
	StartTokenMint solana.PublicKey `json:"startTokenMint"`
	EndTokenMint   solana.PublicKey `json:"endTokenMint"`
	Hops           []Hop            `json:"hops"`
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	hops := make([]Hop, len(r.Hops))
	copy(hops, r.Hops)
	return Route{
		StartTokenMint: r.StartTokenMint,
		EndTokenMint:   r.EndTokenMint,
		Hops:           hops,
	}
}

// PoolAddresses returns the pool address of every hop, in order.
func (r Route) PoolAddresses() []solana.PublicKey {
	out := make([]solana.PublicKey, len(r.Hops))
	for i, h := range r.Hops {
		out[i] = h.PoolAddress
	}
	return out
}

type TokenPair struct {
	Start solana.PublicKey `json:"start"`
	End   solana.PublicKey `json:"end"`
}

// RouteSearchEntry is the result for one queried pair, keyed by its
// direction-preserving search route id.
type RouteSearchEntry struct {
	ID     string  `json:"id"`
	Routes []Route `json:"routes"`
}

// SearchOptions restricts route discovery.
//
// IntermediateTokens is an allow-list for the middle token of 2-hop routes.
// A nil slice means any token may be used; a non-nil empty slice forbids
// every 2-hop route. Direct pools are never filtered.
type SearchOptions struct {
	IntermediateTokens []solana.PublicKey `json:"intermediateTokens,omitempty"`
}
