// Satchel: Personal Knowledge Base MCP Server
//
// An MCP server that gives any AI tool (Claude Code, Cursor, Gemini
// CLI, VS Code Copilot) a persistent personal knowledge base: people,
// projects, sprints, tasks, memories, and notes behind one uniform
// entity surface.
//
// Usage:
//
//	satchel serve    # Start MCP server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satchel-mcp/satchel/internal/config"
	satchelserver "github.com/satchel-mcp/satchel/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

// configDir is set by the --config-dir flag.
var configDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel is a personal knowledge base MCP server",
	Long: `Satchel stores people, projects, sprints, tasks, memories, and notes
and serves them to AI tools over MCP through one uniform entity surface.

Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "satchel": {
        "command": "satchel",
        "args": ["serve"]
      }
    }
  }`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"config and data directory (default: ~/.satchel)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("satchel v%s\n", satchelserver.Version)
	},
}

func run() error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, cleanup, err := satchelserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}
