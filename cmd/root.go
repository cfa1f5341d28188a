package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/blog-api/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blog-api",
	Short: "Blog API server",
	Long: `Blog API - A blog backend with ranked full-text search

This API serves blog posts with full-text search over titles, excerpts,
content and tags, combining textual relevance with popularity signals,
recency decay and editorial boosts.

Features:
  • Ranked post search with SQLite FTS5 and a scoring fallback
  • Search suggestions, popular and trending hints
  • Filter discovery (sections, tag usage counts)
  • Search analytics for the admin dashboard`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfigOnInit)

	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfigOnInit loads the configuration when a command needs it
// This is called lazily only when a command that needs config runs
func loadConfigOnInit() {
	// Skip config loading for commands that don't need it
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	// Initialize the configuration
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
