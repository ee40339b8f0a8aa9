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
	// Storage configuration
	DBPath string `long:"db-path" env:"DATABASE_PATH" default:"./data/linkedin.db" description:"Path to the SQLite database file"`

	// Application configuration
	TopicsFile         string `long:"topics-file" env:"TOPICS_FILE" default:"./config/topics.yml" description:"Path to the topics configuration file"`
	Port               string `long:"port" env:"PORT" default:"3100" description:"HTTP server port"`
	APIAccessKey       string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the manual fetch trigger (optional)"`
	MaxRequestsPerDay  int    `long:"max-requests-per-day" env:"MAX_REQUESTS_PER_DAY" default:"50" description:"Daily fetch request budget"`
	FetchIntervalHours int    `long:"fetch-interval-hours" env:"FETCH_INTERVAL_HOURS" default:"6" description:"Hours between scheduled fetch cycles"`
	FetchDelay         int    `long:"fetch-delay" env:"FETCH_DELAY" default:"5" description:"Base delay between fetch tasks in seconds (jitter adds up to the same amount)"`
	FetchTimeout       int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Timeout for individual network fetches in seconds"`

	// Scraping session
	LinkedInCookie string `long:"li-at" env:"LI_AT" description:"LinkedIn li_at session cookie for detail fetches (optional)"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"User agent string for HTTP requests"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Pacific/Auckland)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
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
		DBPath:             raw.DBPath,
		TopicsFile:         raw.TopicsFile,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		MaxRequestsPerDay:  raw.MaxRequestsPerDay,
		FetchIntervalHours: raw.FetchIntervalHours,
		FetchDelay:         raw.FetchDelay,
		FetchTimeout:       raw.FetchTimeout,
		LinkedInCookie:     raw.LinkedInCookie,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
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
