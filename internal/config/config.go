package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables resolved from viper at startup.
var (
	// CatalogDBFile is the path to the catalog SQLite database
	CatalogDBFile string
	// CacheDBFile is the path to the embedding cache SQLite database
	CacheDBFile string
	// CacheTTL is how long cached embedding vectors stay valid
	CacheTTL time.Duration
	// EmbeddingBaseURL is the base URL of the embedding provider API
	EmbeddingBaseURL string
	// EmbeddingAPIKey authenticates against the embedding provider
	EmbeddingAPIKey string
	// EmbeddingModel is the embedding model identifier sent to the provider
	EmbeddingModel string
	// EmbeddingTimeout bounds a single embedding request
	EmbeddingTimeout time.Duration
	// EmbeddingRPS is the sustained request rate allowed to the provider
	EmbeddingRPS int
	// MaxCandidates caps the candidate pool loaded for a similarity request
	MaxCandidates int
	// ServerAddr is the listen address for the HTTP API
	ServerAddr string
)

// InitConfig resolves the global configuration from viper.
func InitConfig() {
	viper.SetDefault("catalog.dbfile", "./readnext.db")
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h")
	viper.SetDefault("embedding.baseurl", "https://api.openai.com/v1")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.timeout", "10s")
	viper.SetDefault("embedding.rps", 5)
	viper.SetDefault("similar.maxcandidates", 100)
	viper.SetDefault("server.addr", ":8080")

	CatalogDBFile = viper.GetString("catalog.dbfile")
	CacheDBFile = viper.GetString("cache.dbfile")
	CacheTTL = parseDurationOr(viper.GetString("cache.ttl"), 720*time.Hour)
	EmbeddingBaseURL = viper.GetString("embedding.baseurl")
	EmbeddingAPIKey = viper.GetString("embedding.apikey")
	EmbeddingModel = viper.GetString("embedding.model")
	EmbeddingTimeout = parseDurationOr(viper.GetString("embedding.timeout"), 10*time.Second)
	EmbeddingRPS = viper.GetInt("embedding.rps")
	MaxCandidates = viper.GetInt("similar.maxcandidates")
	ServerAddr = viper.GetString("server.addr")
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
