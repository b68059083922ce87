package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hxuan190/routegraph/internal/common"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "Inspect Whirlpool routing graphs",
	Long: `routectl builds a routing graph from a pool snapshot or from pools fetched
over RPC and lists the 1-hop and 2-hop routes between two tokens.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.InitLogger(viper.GetString("log_level"), "dev")
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.routectl.yaml)")
	rootCmd.PersistentFlags().String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC endpoint")
	rootCmd.PersistentFlags().String("db", "./data/routegraph.db", "pool snapshot database")
	rootCmd.PersistentFlags().String("log-level", "WARN", "log level")

	for key, flag := range map[string]string{
		"rpc_url":       "rpc",
		"graph_db_path": "db",
		"log_level":     "log-level",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".routectl")
	}

	// RPC_URL, GRAPH_DB_PATH and LOG_LEVEL are shared with the server
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
