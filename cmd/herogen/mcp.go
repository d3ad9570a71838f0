package main

import (
	"github.com/aellingwood/herogen/internal/mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server over stdio",
	Long:  "Start an MCP (Model Context Protocol) server over stdio, letting AI clients list, measure, and render heroes.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	text := newRenderer(cmd, cfg)
	defer text.Close()

	srv, err := mcpserver.New(cfg, text, version)
	if err != nil {
		return err
	}
	return srv.Run(cmdContext(cmd), &mcp.StdioTransport{})
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
