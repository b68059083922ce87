package market

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/metrics"
)

const (
	// MaxAccountsPerRequest is the getMultipleAccounts limit.
	MaxAccountsPerRequest = 100

	defaultPoolCacheSize = 10000
	fetchRetries         = 3
	fetchTimeout         = 30 * time.Second
)

// AccountsGetter is the subset of the RPC client used to load pool accounts.
type AccountsGetter interface {
	GetMultipleAccounts(ctx context.Context, accounts ...solana.PublicKey) (*rpc.GetMultipleAccountsResult, error)
}

type FetcherOptions struct {
	// BatchSize caps accounts per RPC call, at most MaxAccountsPerRequest.
	BatchSize int
	// RequestsPerSecond paces RPC calls; zero disables pacing.
	RequestsPerSecond float64
	// CacheSize bounds the decoded pool cache.
	CacheSize int
	// ProgramID is the expected account owner.
	ProgramID solana.PublicKey
}

// PoolFetcher loads Whirlpool accounts over RPC and keeps decoded pools in
// a bounded cache. Token mints of a pool never change, so cached entries
// stay valid for routing.
type PoolFetcher struct {
	client    AccountsGetter
	cache     *BoundedLRUCache[solana.PublicKey, *domain.Pool]
	limiter   *rate.Limiter
	batchSize int
	programID solana.PublicKey
}

func NewPoolFetcher(client AccountsGetter, opts FetcherOptions) *PoolFetcher {
	if opts.BatchSize <= 0 || opts.BatchSize > MaxAccountsPerRequest {
		opts.BatchSize = MaxAccountsPerRequest
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultPoolCacheSize
	}
	if opts.ProgramID.IsZero() {
		opts.ProgramID = WhirlpoolProgramID
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &PoolFetcher{
		client:    client,
		cache:     NewBoundedLRUCache[solana.PublicKey, *domain.Pool](opts.CacheSize),
		limiter:   rate.NewLimiter(limit, 1),
		batchSize: opts.BatchSize,
		programID: opts.ProgramID,
	}
}

// FetchPools resolves addresses into decoded pools. Accounts that are
// missing, owned by another program or fail to decode are left out of the
// result. Only RPC failures are returned as errors.
func (f *PoolFetcher) FetchPools(ctx context.Context, addresses []solana.PublicKey) (map[solana.PublicKey]*domain.Pool, error) {
	result := make(map[solana.PublicKey]*domain.Pool, len(addresses))
	misses := make([]solana.PublicKey, 0, len(addresses))
	seen := make(map[solana.PublicKey]struct{}, len(addresses))

	for _, addr := range addresses {
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}

		if pool, ok := f.cache.Get(addr); ok {
			metrics.PoolFetchCacheHits.Inc()
			result[addr] = pool
			continue
		}
		misses = append(misses, addr)
	}

	for start := 0; start < len(misses); start += f.batchSize {
		end := start + f.batchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		res, err := f.getMultipleAccounts(ctx, batch)
		if err != nil {
			return nil, err
		}

		for i, acc := range res.Value {
			if i >= len(batch) {
				break
			}
			if pool := f.decodeAccount(batch[i], acc, res.Context.Slot); pool != nil {
				f.cache.Set(batch[i], pool)
				result[batch[i]] = pool
			}
		}
	}

	return result, nil
}

func (f *PoolFetcher) getMultipleAccounts(ctx context.Context, batch []solana.PublicKey) (*rpc.GetMultipleAccountsResult, error) {
	var lastErr error
	for retry := 0; retry < fetchRetries; retry++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		res, err := f.client.GetMultipleAccounts(reqCtx, batch...)
		cancel()

		if err == nil && res != nil {
			metrics.PoolFetchRequests.WithLabelValues("ok").Inc()
			return res, nil
		}
		if err == nil {
			err = fmt.Errorf("empty getMultipleAccounts response")
		}
		lastErr = err
		metrics.PoolFetchRequests.WithLabelValues("error").Inc()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(100*(retry+1)) * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("getMultipleAccounts for %d pools failed after %d attempts: %w", len(batch), fetchRetries, lastErr)
}

func (f *PoolFetcher) decodeAccount(address solana.PublicKey, acc *rpc.Account, slot uint64) *domain.Pool {
	if acc == nil || acc.Data == nil {
		return nil
	}
	if acc.Owner != f.programID {
		log.Debug().
			Str("pool", address.String()).
			Str("owner", acc.Owner.String()).
			Msg("[PoolFetcher] account not owned by pool program, skipping")
		return nil
	}

	whirlpool, err := DecodeWhirlpool(acc.Data.GetBinary())
	if err != nil {
		metrics.PoolDecodeFailures.Inc()
		log.Debug().Err(err).Str("pool", address.String()).Msg("[PoolFetcher] failed to decode pool account")
		return nil
	}
	return whirlpool.ToPool(address, slot)
}

// Forget drops cached pools so the next fetch reads them from RPC again.
func (f *PoolFetcher) Forget(addresses ...solana.PublicKey) {
	for _, addr := range addresses {
		f.cache.Delete(addr)
	}
}

func (f *PoolFetcher) CachedPools() int {
	return f.cache.Len()
}
