package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

type PoolType uint8

const (
	PoolTypeWhirlpool PoolType = iota
)

func (p PoolType) String() string {
	switch p {
	case PoolTypeWhirlpool:
		return "Whirlpool"
	default:
		return "UNKNOWN"
	}
}

// Pool is the decoded on-chain state of a liquidity pool.
// Only Address, TokenMintA and TokenMintB take part in routing; the rest is
// carried for the HTTP and persistence layers.
type Pool struct {
	Address          solana.PublicKey `json:"address"`
	Type             PoolType         `json:"type"`
	ProgramID        solana.PublicKey `json:"programId"`
	WhirlpoolsConfig solana.PublicKey `json:"whirlpoolsConfig"`
	TokenMintA       solana.PublicKey `json:"tokenMintA"`
	TokenMintB       solana.PublicKey `json:"tokenMintB"`
	TokenVaultA      solana.PublicKey `json:"tokenVaultA"`
	TokenVaultB      solana.PublicKey `json:"tokenVaultB"`
	TickSpacing      uint16           `json:"tickSpacing"`
	FeeRate          uint16           `json:"feeRate"`
	Liquidity        *big.Int         `json:"liquidity"`
	SqrtPriceX64     *big.Int         `json:"sqrtPriceX64"`
	TickCurrentIndex int32            `json:"tickCurrentIndex"`
	LastUpdatedSlot  uint64           `json:"lastUpdatedSlot"`
}

// Edge returns the routing view of the pool.
func (p *Pool) Edge() PoolEdge {
	return PoolEdge{
		Address:    p.Address,
		TokenMintA: p.TokenMintA,
		TokenMintB: p.TokenMintB,
	}
}

// HasLiquidity reports whether the pool currently holds in-range liquidity.
func (p *Pool) HasLiquidity() bool {
	return p.Liquidity != nil && p.Liquidity.Sign() > 0
}

// PoolEdge is an undirected connection between two tokens through one pool.
type PoolEdge struct {
	Address    solana.PublicKey `json:"address"`
	TokenMintA solana.PublicKey `json:"tokenMintA"`
	TokenMintB solana.PublicKey `json:"tokenMintB"`
}

// Edge is one entry of a token's adjacency list.
type Edge struct {
	PoolAddress solana.PublicKey `json:"poolAddress"`
	OtherToken  solana.PublicKey `json:"otherToken"`
}

// PoolEdges maps decoded pools to their routing edges, skipping nil entries.
func PoolEdges(pools []*Pool) []PoolEdge {
	edges := make([]PoolEdge, 0, len(pools))
	for _, p := range pools {
		if p == nil {
			continue
		}
		edges = append(edges, p.Edge())
	}
	return edges
}
