// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	USDCMint       = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	USDTMint       = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

// MajorIntermediateTokens is the allow-list selected by the "majors" keyword
// in intermediate token settings.
var MajorIntermediateTokens = []solana.PublicKey{WrappedSOLMint, USDCMint, USDTMint}

const MajorIntermediateTokensKeyword = "majors"
