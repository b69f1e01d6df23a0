// Command sportsmcp normalizes ESPN boxscores fetched through an MCP server.
//
// Usage:
//
//	sportsmcp summary nba 401585601 --team lakers
//	sportsmcp scoreboard nhl --date 20250114
//	sportsmcp serve
//	sportsmcp bot
//	sportsmcp mcp-serve
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	serviceName    = "sportsmcp"
	serviceVersion = "0.1.0"
)

func main() {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Normalized sports boxscores over MCP",
		Version:       serviceVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides SPORTSMCP_CONFIG)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("SPORTSMCP_CONFIG", configPath)
		}
		return nil
	}

	root.AddCommand(summaryCmd())
	root.AddCommand(scoreboardCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(botCmd())
	root.AddCommand(mcpServeCmd())

	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
