// Package cmd wires the readnext CLI: ingestion, similarity queries, the
// weekly pick and the HTTP server.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/readnext/internal/catalog"
	"github.com/lepinkainen/readnext/internal/config"
	"github.com/lepinkainen/readnext/internal/embedding"
	"github.com/lepinkainen/readnext/internal/server"
	"github.com/lepinkainen/readnext/internal/similarity"
	"github.com/lepinkainen/readnext/internal/weekly"
)

// CLI represents the complete command structure for the readnext application
type CLI struct {
	// Global flags
	CatalogDB   string `help:"Path to catalog SQLite database file" default:"./readnext.db"`
	CacheDBFile string `help:"Path to embedding cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Embedding cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Ingest  IngestCmd  `cmd:"" help:"Import backlog items from a CSV export or YAML seed file"`
	Similar SimilarCmd `cmd:"" help:"Rank backlog items by similarity to a reference item"`
	Weekly  WeeklyCmd  `cmd:"" help:"Show this week's deterministic recommendation"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API server"`
	Cache   CacheCmd   `cmd:"" help:"Manage the embedding cache"`
}

// IngestCmd loads catalog items into the local database.
type IngestCmd struct {
	Input  string `short:"f" help:"Path to the backlog export file" required:""`
	Format string `help:"Input format" enum:"csv,yaml" default:"csv"`
}

// SimilarCmd ranks candidates against a reference item.
type SimilarCmd struct {
	ID        string `help:"Reference item id" required:""`
	Partition string `short:"p" help:"Backlog partition to search" enum:"want-to-read,owned" default:"want-to-read"`
	Limit     int    `short:"n" help:"Maximum number of results" default:"10"`
	NoVectors bool   `help:"Skip the semantic engine and use lexical/metadata ranking only"`
}

// WeeklyCmd prints the deterministic weekly pick.
type WeeklyCmd struct{}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr from config)"`
}

// CacheCmd groups embedding cache maintenance commands.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Clear embedding cache entries"`
}

// CacheClearCmd deletes cached embedding vectors.
type CacheClearCmd struct {
	Expired bool `help:"Only remove entries older than the cache TTL"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("readnext"),
		kong.Description("Recommends the next book to read from your backlog."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("embedding.apikey", "READNEXT_EMBEDDING_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error reading config file", "error", err)
			os.Exit(1)
		}
		slog.Debug("No config file found, using defaults")
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	viper.Set("catalog.dbfile", cli.CatalogDB)
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)

	config.InitConfig()
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore opens the catalog database configured for this run.
func openStore() (*catalog.SQLiteStore, error) {
	store, err := catalog.NewSQLiteStore(config.CatalogDBFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}

// newVectorSource builds the embedding fetcher, or nil when no API key is
// configured so callers degrade to lexical/metadata ranking.
func newVectorSource() (*embedding.Fetcher, func(), error) {
	if config.EmbeddingAPIKey == "" {
		slog.Info("No embedding API key configured, semantic ranking disabled")
		return nil, func() {}, nil
	}

	cache, err := embedding.NewSQLiteCache(config.CacheDBFile, config.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	provider := embedding.NewOpenAIProvider(embedding.OpenAIOptions{
		BaseURL: config.EmbeddingBaseURL,
		APIKey:  config.EmbeddingAPIKey,
		Model:   config.EmbeddingModel,
		Timeout: config.EmbeddingTimeout,
		RPS:     config.EmbeddingRPS,
	})

	return embedding.NewFetcher(provider, cache), func() { _ = cache.Close() }, nil
}

// newSimilarityService assembles the orchestrator with its dependencies.
func newSimilarityService(store catalog.Store, noVectors bool) (*similarity.Service, func(), error) {
	if noVectors {
		return similarity.NewService(store, nil, similarity.WithMaxCandidates(config.MaxCandidates)), func() {}, nil
	}

	fetcher, cleanup, err := newVectorSource()
	if err != nil {
		return nil, nil, err
	}

	var vectors similarity.VectorSource
	if fetcher != nil {
		vectors = fetcher
	}
	return similarity.NewService(store, vectors, similarity.WithMaxCandidates(config.MaxCandidates)), cleanup, nil
}

// Run methods for each command

func (c *IngestCmd) Run() error {
	var items []catalog.Item
	var err error

	switch c.Format {
	case "yaml":
		items, err = catalog.LoadYAML(c.Input)
	default:
		items, err = catalog.LoadCSV(c.Input)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no items found in %s", c.Input)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.UpsertItems(context.Background(), items); err != nil {
		return err
	}

	slog.Info("Ingested backlog items", "count", len(items), "db", config.CatalogDBFile)
	return nil
}

func (c *SimilarCmd) Run() error {
	partition, err := catalog.ParsePartition(c.Partition)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc, cleanup, err := newSimilarityService(store, c.NoVectors)
	if err != nil {
		return err
	}
	defer cleanup()

	items, err := svc.FindSimilar(context.Background(), c.ID, partition, c.Limit)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No similar items found.")
		return nil
	}
	for i, item := range items {
		fmt.Printf("%2d. %s by %s\n", i+1, item.Title, item.Creator)
	}
	return nil
}

func (c *WeeklyCmd) Run() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	pick, err := weekly.NewSelector(store).Pick(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("This week's pick: %s by %s\n", pick.Title, pick.Creator)
	if pick.Availability.Library {
		fmt.Println("Available at the library right now.")
	} else if pick.Availability.Ebook {
		fmt.Println("Available as an ebook.")
	}
	return nil
}

func (c *ServeCmd) Run() error {
	addr := c.Addr
	if addr == "" {
		addr = config.ServerAddr
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc, cleanup, err := newSimilarityService(store, false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(addr, svc, weekly.NewSelector(store))
	return srv.Start(ctx)
}

func (c *CacheClearCmd) Run() error {
	cache, err := embedding.NewSQLiteCache(config.CacheDBFile, config.CacheTTL)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	var deleted int64
	if c.Expired {
		deleted, err = cache.ClearExpired(context.Background())
	} else {
		deleted, err = cache.ClearAll(context.Background())
	}
	if err != nil {
		return err
	}

	slog.Info("Embedding cache cleared", "deleted", deleted, "expired_only", c.Expired)
	return nil
}
