package market

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/routegraph/internal/domain"
)

var (
	WhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

	// WhirlpoolAccountDiscriminator is the Anchor account discriminator,
	// sha256("account:Whirlpool")[:8].
	WhirlpoolAccountDiscriminator = anchorAccountDiscriminator("Whirlpool")

	ErrInvalidPoolAccount = errors.New("invalid pool account")
)

func anchorAccountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// WhirlpoolAccount is the fixed-size head of an Orca Whirlpool account, up
// to and including the fee growth of token B. Reward infos are not decoded.
type WhirlpoolAccount struct {
	WhirlpoolsConfig           solana.PublicKey
	WhirlpoolBump              [1]uint8
	TickSpacing                uint16
	FeeTierIndexSeed           [2]uint8
	FeeRate                    uint16
	ProtocolFeeRate            uint16
	Liquidity                  bin.Uint128
	SqrtPrice                  bin.Uint128
	TickCurrentIndex           int32
	ProtocolFeeOwedA           uint64
	ProtocolFeeOwedB           uint64
	TokenMintA                 solana.PublicKey
	TokenVaultA                solana.PublicKey
	FeeGrowthGlobalA           bin.Uint128
	TokenMintB                 solana.PublicKey
	TokenVaultB                solana.PublicKey
	FeeGrowthGlobalB           bin.Uint128
	RewardLastUpdatedTimestamp uint64
}

// DecodeWhirlpool decodes raw account data (discriminator included).
func DecodeWhirlpool(data []byte) (*WhirlpoolAccount, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPoolAccount, len(data))
	}
	if !bytes.Equal(data[:8], WhirlpoolAccountDiscriminator[:]) {
		return nil, fmt.Errorf("%w: discriminator mismatch", ErrInvalidPoolAccount)
	}

	var acc WhirlpoolAccount
	if err := bin.NewBinDecoder(data[8:]).Decode(&acc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoolAccount, err)
	}
	return &acc, nil
}

// ToPool converts a decoded account into the domain pool stored at address.
func (acc *WhirlpoolAccount) ToPool(address solana.PublicKey, slot uint64) *domain.Pool {
	return &domain.Pool{
		Address:          address,
		Type:             domain.PoolTypeWhirlpool,
		ProgramID:        WhirlpoolProgramID,
		WhirlpoolsConfig: acc.WhirlpoolsConfig,
		TokenMintA:       acc.TokenMintA,
		TokenMintB:       acc.TokenMintB,
		TokenVaultA:      acc.TokenVaultA,
		TokenVaultB:      acc.TokenVaultB,
		TickSpacing:      acc.TickSpacing,
		FeeRate:          acc.FeeRate,
		Liquidity:        acc.Liquidity.BigInt(),
		SqrtPriceX64:     acc.SqrtPrice.BigInt(),
		TickCurrentIndex: acc.TickCurrentIndex,
		LastUpdatedSlot:  slot,
	}
}

// EncodeWhirlpool is the inverse of DecodeWhirlpool. It is used to seed
// fixtures and local snapshots.
func EncodeWhirlpool(acc *WhirlpoolAccount) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(WhirlpoolAccountDiscriminator[:])
	if err := bin.NewBinEncoder(buf).Encode(acc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
