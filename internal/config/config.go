package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures client and server settings.
type Config struct {
	// APIURL is the configured backend base URL; empty selects relative paths.
	APIURL  string
	Origin  string
	LogFile string
	Server  Server
}

// Server configures `skyhigh serve`.
type Server struct {
	Bind          string
	MongoURI      string
	MongoDatabase string
	MaxUploadMB   int
}

const (
	defaultConfigPath    = "~/.config/skyhigh/config.toml"
	defaultLogFile       = "~/.local/share/skyhigh/skyhigh.log"
	defaultOrigin        = "http://localhost:8000"
	defaultBind          = ":8001"
	defaultMongoDatabase = "skyhigh"
	defaultMaxUploadMB   = 32
	defaultEnvFile       = ".env"
)

// Environment variables that override file values.
const (
	EnvAPIURL   = "SKYHIGH_API_URL"
	EnvOrigin   = "SKYHIGH_ORIGIN"
	EnvMongoURI = "SKYHIGH_MONGO_URI"
)

// Options control where Load looks.
type Options struct {
	Path    string // empty uses ~/.config/skyhigh/config.toml
	EnvFile string // empty uses ./.env
}

// Load reads the TOML config, then applies .env and process environment
// overrides. A missing config or .env file is not an error.
func Load(opts Options) (Config, error) {
	resolved, err := resolvePath(opts.Path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()
	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	env, err := readEnv(opts.EnvFile)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg, env)

	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Origin:  defaultOrigin,
		LogFile: defaultLogFile,
		Server: Server{
			Bind:          defaultBind,
			MongoDatabase: defaultMongoDatabase,
			MaxUploadMB:   defaultMaxUploadMB,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL  string `toml:"api_url"`
		Origin  string `toml:"origin"`
		LogFile string `toml:"log_file"`
		Server  struct {
			Bind          string `toml:"bind"`
			MongoURI      string `toml:"mongo_uri"`
			MongoDatabase string `toml:"mongo_database"`
			MaxUploadMB   int    `toml:"max_upload_mb"`
		} `toml:"server"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = strings.TrimSpace(raw.APIURL)
	setIfPresent(&cfg.Origin, raw.Origin)
	setIfPresent(&cfg.LogFile, raw.LogFile)
	setIfPresent(&cfg.Server.Bind, raw.Server.Bind)
	cfg.Server.MongoURI = strings.TrimSpace(raw.Server.MongoURI)
	setIfPresent(&cfg.Server.MongoDatabase, raw.Server.MongoDatabase)
	if raw.Server.MaxUploadMB > 0 {
		cfg.Server.MaxUploadMB = raw.Server.MaxUploadMB
	}
	return nil
}

// readEnv merges the .env file with the process environment; the process
// environment wins.
func readEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		values = map[string]string{}
	}
	for _, key := range []string{EnvAPIURL, EnvOrigin, EnvMongoURI} {
		if v, ok := os.LookupEnv(key); ok {
			values[key] = v
		}
	}
	return values, nil
}

func applyEnv(cfg *Config, env map[string]string) {
	if v, ok := env[EnvAPIURL]; ok {
		cfg.APIURL = strings.TrimSpace(v)
	}
	setIfPresent(&cfg.Origin, env[EnvOrigin])
	if v, ok := env[EnvMongoURI]; ok {
		cfg.Server.MongoURI = strings.TrimSpace(v)
	}
}

func setIfPresent(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

// MaxUploadBytes returns the server's upload size limit.
func (s Server) MaxUploadBytes() int64 {
	mb := s.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
