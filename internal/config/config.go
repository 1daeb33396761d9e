package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string       `json:"serverAddress"`
	DatabasePath  string       `json:"databasePath"`
	DatabaseURL   string       `json:"databaseUrl"`
	PhotoStorage  PhotoStorage `json:"photoStorage"`
	Vision        Vision       `json:"vision"`
}

// UsePostgres returns true if PostgreSQL should be used
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// PhotoStorage configuration
type PhotoStorage struct {
	BasePath      string `json:"basePath"`
	MaxFileSizeMB int64  `json:"maxFileSizeMB"`
}

// Vision selects and configures the enrichment backend.
// Provider is one of "mock" or "ollama"; anything else falls back to mock.
type Vision struct {
	Provider    string `json:"provider"`
	OllamaURL   string `json:"ollamaUrl"`
	OllamaModel string `json:"ollamaModel"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":5000",
		DatabasePath:  "geopix.db",
		PhotoStorage: PhotoStorage{
			BasePath:      "./photos",
			MaxFileSizeMB: 10,
		},
		Vision: Vision{
			Provider: "mock",
		},
	}
}

// Load loads configuration from file or environment
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Try to load from config file
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment variables
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if basePath := os.Getenv("PHOTO_STORAGE_PATH"); basePath != "" {
		cfg.PhotoStorage.BasePath = basePath
	}
	if maxSize := os.Getenv("MAX_FILE_SIZE_MB"); maxSize != "" {
		if mb, err := strconv.ParseInt(maxSize, 10, 64); err == nil && mb > 0 {
			cfg.PhotoStorage.MaxFileSizeMB = mb
		}
	}
	if provider := os.Getenv("VISION_PROVIDER"); provider != "" {
		cfg.Vision.Provider = provider
	}
	if url := os.Getenv("OLLAMA_URL"); url != "" {
		cfg.Vision.OllamaURL = url
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		cfg.Vision.OllamaModel = model
	}

	// Ensure photo storage directory exists
	if err := os.MkdirAll(cfg.PhotoStorage.BasePath, 0755); err != nil {
		return nil, err
	}

	// Make base path absolute
	absPath, err := filepath.Abs(cfg.PhotoStorage.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.PhotoStorage.BasePath = absPath

	return cfg, nil
}
