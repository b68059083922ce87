package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"

	"github.com/hxuan190/routegraph/internal/adapters/persistence"
	"github.com/hxuan190/routegraph/internal/config"
	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/services/market"
	"github.com/hxuan190/routegraph/internal/services/router"
)

// loadGraph builds a graph from the comma separated pool list fetched over
// RPC, or from the local snapshot when the list is empty.
func loadGraph(ctx context.Context, poolList string) (*router.Graph, error) {
	addresses, err := config.ParsePublicKeyList(poolList)
	if err != nil {
		return nil, err
	}

	if len(addresses) > 0 {
		fetcher := market.NewPoolFetcher(rpc.New(viper.GetString("rpc_url")), market.FetcherOptions{
			RequestsPerSecond: 5,
		})
		return router.BuildGraphWithFetch(ctx, addresses, fetcher)
	}

	storage, err := openSnapshot()
	if err != nil {
		return nil, err
	}
	defer storage.Close()

	pools, err := storage.LoadAllPools()
	if err != nil {
		return nil, err
	}
	return router.BuildGraph(domain.PoolEdges(pools)), nil
}

// snapshotRows counts the pool rows stored in the snapshot, including rows
// that no longer decode.
func snapshotRows() (int, error) {
	storage, err := openSnapshot()
	if err != nil {
		return 0, err
	}
	defer storage.Close()
	return storage.GetPoolCount()
}

func openSnapshot() (*persistence.Storage, error) {
	dbPath := viper.GetString("graph_db_path")
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no snapshot at %s and no --pools given", dbPath)
	}
	return persistence.NewStorage(dbPath)
}
