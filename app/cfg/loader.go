package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Provider credentials. A provider whose key is empty is not
	// registered at startup.
	NewsAPIKey  string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"NewsAPI API key"`
	GuardianKey string `long:"guardian-key" env:"GUARDIAN_KEY" description:"The Guardian API key"`
	NYTimesKey  string `long:"nytimes-key" env:"NYTIMES_KEY" description:"The New York Times API key"`

	// Application configuration
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./news-comb.db" description:"SQLite database path"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	TaxonomyFile string `long:"taxonomy-file" env:"TAXONOMY_FILE" description:"Category taxonomy YAML file (optional, embedded default otherwise)"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-provider fetch timeout in seconds"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for content extraction"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		NewsAPIKey:   raw.NewsAPIKey,
		GuardianKey:  raw.GuardianKey,
		NYTimesKey:   raw.NYTimesKey,
		DBPath:       raw.DBPath,
		Port:         raw.Port,
		TaxonomyFile: raw.TaxonomyFile,
		FetchTimeout: raw.FetchTimeout,
		WorkerCount:  raw.WorkerCount,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
