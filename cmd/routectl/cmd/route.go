package cmd

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/hxuan190/routegraph/internal/config"
	"github.com/hxuan190/routegraph/internal/domain"
	"github.com/hxuan190/routegraph/internal/services/router"
)

var routeCmd = &cobra.Command{
	Use:   "route [inputMint] [outputMint]",
	Short: "List routes between two tokens",
	Long: `List every direct and 2-hop route from inputMint to outputMint.

--via restricts the middle token of 2-hop routes: a comma separated list,
"none" for direct pools only or "majors" for SOL/USDC/USDT.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return fmt.Errorf("invalid inputMint: %w", err)
		}
		end, err := solana.PublicKeyFromBase58(args[1])
		if err != nil {
			return fmt.Errorf("invalid outputMint: %w", err)
		}

		poolList, _ := cmd.Flags().GetString("pools")
		via, _ := cmd.Flags().GetString("via")
		asJSON, _ := cmd.Flags().GetBool("json")

		intermediates, err := config.ParseIntermediateTokens(via)
		if err != nil {
			return fmt.Errorf("invalid --via: %w", err)
		}

		graph, err := loadGraph(cmd.Context(), poolList)
		if err != nil {
			return err
		}

		routes := graph.GetRoute(start, end, &domain.SearchOptions{IntermediateTokens: intermediates})

		if asJSON {
			out, err := sonic.MarshalIndent(domain.RouteSearchEntry{
				ID:     router.SearchRouteID(start, end),
				Routes: routes,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		printRoutes(cmd, start, end, routes)
		return nil
	},
}

func printRoutes(cmd *cobra.Command, start, end solana.PublicKey, routes []domain.Route) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s -> %s: %d route(s)\n", start, end, len(routes))
	for i, r := range routes {
		pools := make([]string, len(r.Hops))
		for j, h := range r.Hops {
			pools[j] = h.PoolAddress.String()
		}
		fmt.Fprintf(w, "  %2d. [%d hop] %s\n", i+1, len(r.Hops), strings.Join(pools, " > "))
	}
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.Flags().String("pools", "", "comma separated pool addresses to fetch over RPC instead of the snapshot")
	routeCmd.Flags().String("via", "", "allowed intermediate tokens")
	routeCmd.Flags().Bool("json", false, "print JSON")
}
