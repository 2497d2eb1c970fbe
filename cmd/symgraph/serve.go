package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/symgraph/symgraph"
	"github.com/symgraph/symgraph/internal/mcptools"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server exposing analysis tools over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default: from config, localhost:8391)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := flagAddr
	if addr == "" {
		addr = settings.MCPAddr
	}

	session := symgraph.NewSession(symgraph.Config{
		Root:       settings.Root,
		Extensions: settings.Extensions,
		Workers:    settings.Workers,
	})
	svc := mcptools.NewService(session)

	fmt.Fprintf(os.Stderr, "MCP server listening on %s\n", addr)
	return mcptools.Run(cmd.Context(), svc, addr)
}
