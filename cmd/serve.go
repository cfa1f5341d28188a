package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/blog-api/api"
	"github.com/killallgit/blog-api/api/types"
	"github.com/killallgit/blog-api/internal/database"
	"github.com/killallgit/blog-api/internal/models"
	"github.com/killallgit/blog-api/internal/services/analytics"
	"github.com/killallgit/blog-api/internal/services/posts"
	searchService "github.com/killallgit/blog-api/internal/services/search"
	"github.com/killallgit/blog-api/pkg/config"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Blog API server with the configured settings.

The server will listen for HTTP requests, serving post search, suggestions,
filter discovery and search analytics endpoints.

Example:
  blog-api serve
  blog-api serve --port 9090
  blog-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	// Initialize database and migrate models
	db, err := database.Initialize(database.Options{
		Path:            cfg.Database.Path,
		Verbose:         cfg.Database.Verbose,
		MaxConnections:  cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConnections,
		ConnMaxLifetime: cfg.Database.ConnectionMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARN] Closing database: %v", err)
		}
	}()

	if err := db.AutoMigrate(&models.Post{}, &models.SearchAnalytics{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Build the dependency graph
	postRepo := posts.NewRepository(db.DB)
	analyticsService := analytics.NewService(analytics.NewRepository(db.DB))

	// The full-text index is optional; without it every search uses the
	// scoring fallback.
	if cfg.Search.EnableIndex {
		if err := postRepo.EnsureSearchIndex(cmd.Context()); err != nil {
			log.Printf("[WARN] Full-text index unavailable, searches will use fallback scoring: %v", err)
		}
	}

	deps := &types.Dependencies{
		DB:               db,
		PostRepository:   postRepo,
		AnalyticsService: analyticsService,
		SearchService: searchService.NewService(
			postRepo,
			analyticsService,
			searchService.WithOverFetch(cfg.Search.OverFetch),
			searchService.WithAnalyticsTimeout(cfg.Search.AnalyticsTimeout),
		),
	}

	// Create and initialize the HTTP server
	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	log.Printf("[INFO] Blog API server ready at %s:%d", serverHost, serverPort)

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
