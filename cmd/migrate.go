package cmd

import (
	"fmt"

	"github.com/killallgit/blog-api/internal/database"
	"github.com/killallgit/blog-api/internal/models"
	"github.com/killallgit/blog-api/internal/services/posts"
	"github.com/killallgit/blog-api/pkg/config"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the Blog API.

This command provides subcommands to apply migrations and check the current
schema status, including the full-text search index over posts.

Available subcommands:
  up      - Apply schema migrations and build the search index
  status  - Show current schema and index status`,
}

// migrateUpCmd applies migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply schema migrations",
	Long: `Apply database schema migrations.

This migrates the post and search analytics tables to the current model
definitions, creates the FTS5 search index if missing, and rebuilds it from
the posts table.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	Long: `Display the current status of the database schema.

This shows which tables exist and whether the full-text search index is
available.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateUpCmd.Flags().Bool("skip-index", false, "skip creating the full-text search index")
}

func openDatabase() (*database.DB, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := database.Initialize(database.Options{
		Path:            cfg.Database.Path,
		Verbose:         cfg.Database.Verbose,
		MaxConnections:  cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConnections,
		ConnMaxLifetime: cfg.Database.ConnectionMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	skipIndex, _ := cmd.Flags().GetBool("skip-index")

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(&models.Post{}, &models.SearchAnalytics{}); err != nil {
		return err
	}
	fmt.Println("Schema migrated")

	if skipIndex {
		fmt.Println("Skipping search index")
		return nil
	}

	repo := posts.NewRepository(db.DB)
	if err := repo.EnsureSearchIndex(cmd.Context()); err != nil {
		return fmt.Errorf("creating search index: %w", err)
	}
	if err := repo.RebuildSearchIndex(cmd.Context()); err != nil {
		return fmt.Errorf("rebuilding search index: %w", err)
	}
	fmt.Println("Search index built")

	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	fmt.Println("Database Schema Status")
	fmt.Println("======================")

	for _, table := range []string{"posts", "search_analytics"} {
		if db.Migrator().HasTable(table) {
			fmt.Printf("  table %-18s present\n", table)
		} else {
			fmt.Printf("  table %-18s missing\n", table)
		}
	}

	var indexed int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts_fts'`,
	).Scan(&indexed).Error; err != nil {
		return fmt.Errorf("checking search index: %w", err)
	}
	if indexed > 0 {
		fmt.Println("  search index       present")
	} else {
		fmt.Println("  search index       missing (searches use fallback scoring)")
	}

	return nil
}
