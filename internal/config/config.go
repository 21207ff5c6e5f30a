package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"StarMiner/internal/economy"
	"StarMiner/internal/player"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string  `yaml:"bot_token"`
		AdminIDs []int64 `yaml:"admin_ids"`
	} `yaml:"telegram"`
	Schedule struct {
		SweepCron  string `yaml:"sweep_cron"`
		BackupCron string `yaml:"backup_cron"`
	} `yaml:"schedule"`
	Storage struct {
		SQLitePath   string `yaml:"sqlite_path"`
		SnapshotPath string `yaml:"snapshot_path"`
	} `yaml:"storage"`
	Database struct {
		HistoryPath string `yaml:"history_path"`
	} `yaml:"database"`
	Feed struct {
		Addr string `yaml:"addr"`
	} `yaml:"feed"`
	Game  Game   `yaml:"game"`
	Proxy string `yaml:"proxy"`
}

// Game is the tunable balance. Zero values fall back to the stock rules.
type Game struct {
	StartMoney         float64 `yaml:"start_money"`
	StartRequiredExp   int     `yaml:"start_required_exp"`
	ExpMultiplier      float64 `yaml:"exp_multiplier"`
	StartShuttles      int     `yaml:"start_shuttles"`
	ShuttlePrice       float64 `yaml:"shuttle_price"`
	ExtractionRate     float64 `yaml:"extraction_rate"`
	ResourcesPerLevel  float64 `yaml:"resources_per_level"`
	MinYieldFraction   float64 `yaml:"min_yield_fraction"`
	DiscoveryExpFactor float64 `yaml:"discovery_exp_factor"`
	Cargo              Upgrade `yaml:"cargo"`
	CelestialDatabase  Upgrade `yaml:"celestial_database"`
}

// Upgrade configures one upgradable capacity.
type Upgrade struct {
	Start       float64 `yaml:"start"`
	Increment   float64 `yaml:"increment"`
	Multiplier  float64 `yaml:"multiplier"`
	InitialCost float64 `yaml:"initial_cost"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return nil, fmt.Errorf("parse ADMIN_IDS: %w", err)
		}
		cfg.Telegram.AdminIDs = ids
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SWEEP"); v != "" {
		cfg.Schedule.SweepCron = v
	}
	if v := os.Getenv("CRON_BACKUP"); v != "" {
		cfg.Schedule.BackupCron = v
	}
	// A storage path from the environment replaces the file's choice of backend.
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
		cfg.Storage.SnapshotPath = ""
	}
	if v := os.Getenv("SNAPSHOT_PATH"); v != "" {
		cfg.Storage.SnapshotPath = v
		cfg.Storage.SQLitePath = ""
	}
	if v := os.Getenv("HISTORY_PATH"); v != "" {
		cfg.Database.HistoryPath = v
	}
	if v := os.Getenv("FEED_ADDR"); v != "" {
		cfg.Feed.Addr = v
	}

	// Defaults
	if cfg.Schedule.SweepCron == "" {
		cfg.Schedule.SweepCron = "@every 1s"
	}
	if cfg.Schedule.BackupCron == "" {
		cfg.Schedule.BackupCron = "@every 1m"
	}
	if cfg.Storage.SQLitePath == "" && cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SQLitePath = "data/starminer.db"
	}

	return cfg, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Storage.SQLitePath != "" && c.Storage.SnapshotPath != "" {
		return fmt.Errorf("storage: set only one of sqlite_path and snapshot_path")
	}
	g := c.Game
	if g.StartMoney < 0 || g.ShuttlePrice < 0 || g.ExtractionRate < 0 {
		return fmt.Errorf("game: money, prices and rates must not be negative")
	}
	if g.MinYieldFraction < 0 || g.MinYieldFraction > 1 {
		return fmt.Errorf("game.min_yield_fraction must be within [0,1]")
	}
	return nil
}

// IsAdmin reports whether id may run operator commands.
func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.Telegram.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

// Rules builds the game balance, starting from the stock rules.
func (c *Config) Rules() *player.Rules {
	r := player.DefaultRules()
	g := c.Game
	if g.StartMoney > 0 {
		r.StartMoney = g.StartMoney
	}
	if g.StartRequiredExp > 0 {
		r.StartRequiredExp = g.StartRequiredExp
	}
	if g.ExpMultiplier > 0 {
		r.ExpMultiplier = g.ExpMultiplier
	}
	if g.StartShuttles > 0 {
		r.StartShuttles = g.StartShuttles
	}
	if g.ShuttlePrice > 0 {
		r.ShuttlePrice = g.ShuttlePrice
	}
	if g.ExtractionRate > 0 {
		r.ExtractionRate = g.ExtractionRate
	}
	if g.ResourcesPerLevel > 0 {
		r.ResourcesPerLevel = g.ResourcesPerLevel
	}
	if g.MinYieldFraction > 0 {
		r.MinYieldFraction = g.MinYieldFraction
	}
	if g.DiscoveryExpFactor > 0 {
		r.DiscoveryExpFactor = g.DiscoveryExpFactor
	}
	if g.Cargo.Start > 0 {
		r.CargoMaxWeight = g.Cargo.Start
	}
	r.CargoUpgrade = g.Cargo.apply(r.CargoUpgrade)
	if g.CelestialDatabase.Start > 0 {
		r.DatabaseCapacity = int(g.CelestialDatabase.Start)
	}
	r.DatabaseUpgrade = g.CelestialDatabase.apply(r.DatabaseUpgrade)
	return r
}

func (u Upgrade) apply(base economy.Upgradeable) economy.Upgradeable {
	if u.Increment > 0 {
		base.Increment = u.Increment
	}
	if u.Multiplier > 0 {
		base.Multiplier = u.Multiplier
	}
	if u.InitialCost > 0 {
		base.Cost = u.InitialCost
	}
	return base
}
