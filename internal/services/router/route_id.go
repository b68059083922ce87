package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// RouteIDDelimiter separates the two mints of a route id. It never occurs in
// base58 output.
const RouteIDDelimiter = "-"

var ErrInvalidRouteID = errors.New("invalid route id")

// SearchRouteID returns the direction-preserving id of a queried pair.
func SearchRouteID(start, end solana.PublicKey) string {
	return start.String() + RouteIDDelimiter + end.String()
}

// InternalRouteID returns the order-independent id of a token pair.
func InternalRouteID(a, b solana.PublicKey) string {
	_, _, id := canonicalPair(a, b)
	return id
}

// canonicalPair orders a and b by their base58 form and returns the pair
// together with its internal route id.
func canonicalPair(a, b solana.PublicKey) (first, second solana.PublicKey, id string) {
	as, bs := a.String(), b.String()
	if bs < as {
		return b, a, bs + RouteIDDelimiter + as
	}
	return a, b, as + RouteIDDelimiter + bs
}

// DeconstructRouteID splits a route id back into its two mints.
func DeconstructRouteID(id string) (solana.PublicKey, solana.PublicKey, error) {
	parts := strings.Split(id, RouteIDDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: %q", ErrInvalidRouteID, id)
	}

	start, err := solana.PublicKeyFromBase58(parts[0])
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: start mint %q: %v", ErrInvalidRouteID, parts[0], err)
	}
	end, err := solana.PublicKeyFromBase58(parts[1])
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: end mint %q: %v", ErrInvalidRouteID, parts[1], err)
	}
	return start, end, nil
}
