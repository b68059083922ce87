package cmd

import (
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/hxuan190/routegraph/internal/services/router"
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Show graph statistics",
	Long:  `Print pool and token counts and the best connected tokens of the graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		poolList, _ := cmd.Flags().GetString("pools")
		top, _ := cmd.Flags().GetInt("top")

		graph, err := loadGraph(cmd.Context(), poolList)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if poolList == "" {
			rows, err := snapshotRows()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "stored: %d\n", rows)
		}
		fmt.Fprintf(w, "pools:  %d\n", graph.PoolCount())
		fmt.Fprintf(w, "tokens: %d\n", graph.TokenCount())

		for i, d := range topTokens(graph, top) {
			fmt.Fprintf(w, "  %2d. %s  %d pool(s)\n", i+1, d.token, d.degree)
		}
		return nil
	},
}

type tokenDegree struct {
	token  solana.PublicKey
	degree int
}

// topTokens returns the n tokens with the most pools, ties by base58 order.
func topTokens(graph *router.Graph, n int) []tokenDegree {
	tokens := graph.Tokens()
	out := make([]tokenDegree, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tokenDegree{token: t, degree: len(graph.Edges(t))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].degree > out[j].degree
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func init() {
	rootCmd.AddCommand(poolsCmd)
	poolsCmd.Flags().String("pools", "", "comma separated pool addresses to fetch over RPC instead of the snapshot")
	poolsCmd.Flags().Int("top", 10, "number of best connected tokens to list")
}
