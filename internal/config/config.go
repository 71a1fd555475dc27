package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"CandleScope/internal/format"
	"CandleScope/internal/interaction"
	"CandleScope/internal/model"
	"CandleScope/internal/render"
	"CandleScope/internal/scale"
	"CandleScope/internal/scheduler"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

const (
	SourceCSV   = "csv"
	SourceYahoo = "yahoo"
)

// Config holds all application configuration.
type Config struct {
	Chart struct {
		Title        string        `yaml:"title"`
		Variant      string        `yaml:"variant"`
		Margin       *model.Margin `yaml:"margin"`
		Currency     string        `yaml:"currency"`
		PricePadding *float64      `yaml:"price_padding"`
		VolumeBand   float64       `yaml:"volume_band"`
		CandleRatio  float64       `yaml:"candle_ratio"`
		HitRatio     float64       `yaml:"hit_ratio"`
		MaxZoom      float64       `yaml:"max_zoom"`
		SVGPath      string        `yaml:"svg_path"`
	} `yaml:"chart"`
	DataSource struct {
		Type   string `yaml:"type"`
		Path   string `yaml:"path"`
		Symbol string `yaml:"symbol"`
		Range  string `yaml:"range"`
	} `yaml:"data_source"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		File string `yaml:"file"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file, then environment variable overrides,
// then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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
	if v := os.Getenv("CHART_DATA_PATH"); v != "" {
		cfg.DataSource.Path = v
	}
	if v := os.Getenv("CHART_SVG_PATH"); v != "" {
		cfg.Chart.SVGPath = v
	}
	if v := os.Getenv("CHART_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CHART_REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Chart.Title == "" {
		c.Chart.Title = "IBEX 35"
	}
	if c.Chart.Variant == "" {
		c.Chart.Variant = "compact"
	}
	if c.Chart.Currency == "" {
		c.Chart.Currency = format.DefaultCurrency
	}
	if c.Chart.PricePadding == nil {
		pad := scale.DefaultOptions.PricePadding
		c.Chart.PricePadding = &pad
	}
	if c.Chart.VolumeBand == 0 {
		c.Chart.VolumeBand = scale.DefaultOptions.VolumeBand
	}
	if c.Chart.CandleRatio == 0 {
		c.Chart.CandleRatio = render.DefaultOptions.CandleRatio
	}
	if c.Chart.HitRatio == 0 {
		c.Chart.HitRatio = render.DefaultOptions.HitRatio
	}
	if c.Chart.MaxZoom == 0 {
		c.Chart.MaxZoom = interaction.DefaultOptions.MaxZoom
	}
	if c.Chart.SVGPath == "" {
		c.Chart.SVGPath = "out/chart.svg"
	}
	if c.DataSource.Type == "" {
		c.DataSource.Type = SourceCSV
	}
	if c.DataSource.Path == "" {
		c.DataSource.Path = "data/ibex35.csv"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "IBEX35"
	}
	if c.DataSource.Range == "" {
		c.DataSource.Range = "1y"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/candlescope.db"
	}
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if _, ok := model.Variants[c.Chart.Variant]; !ok {
		return fmt.Errorf("chart.variant %q is unknown", c.Chart.Variant)
	}
	if c.Chart.HitRatio < 1.25 || c.Chart.HitRatio > 1.5 {
		return fmt.Errorf("chart.hit_ratio must be within [1.25, 1.5], got %v", c.Chart.HitRatio)
	}
	if c.Chart.CandleRatio <= 0 || c.Chart.CandleRatio > 1 {
		return fmt.Errorf("chart.candle_ratio must be within (0, 1], got %v", c.Chart.CandleRatio)
	}
	if c.Chart.VolumeBand <= 0 || c.Chart.VolumeBand >= 1 {
		return fmt.Errorf("chart.volume_band must be within (0, 1), got %v", c.Chart.VolumeBand)
	}
	if c.Chart.PricePadding != nil && *c.Chart.PricePadding < 0 {
		return fmt.Errorf("chart.price_padding must not be negative, got %v", *c.Chart.PricePadding)
	}
	if c.Chart.MaxZoom < 1 {
		return fmt.Errorf("chart.max_zoom must be at least 1, got %v", c.Chart.MaxZoom)
	}
	if m := c.Chart.Margin; m != nil {
		l := c.Layout()
		if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 || l.PlotWidth() <= 0 || l.PlotHeight() <= 0 {
			return fmt.Errorf("chart.margin leaves no room for the plot")
		}
	}
	switch c.DataSource.Type {
	case SourceCSV:
		if strings.TrimSpace(c.DataSource.Path) == "" {
			return fmt.Errorf("data_source.path is required")
		}
	case SourceYahoo:
		if strings.TrimSpace(c.DataSource.Symbol) == "" {
			return fmt.Errorf("data_source.symbol is required")
		}
	default:
		return fmt.Errorf("data_source.type %q is unknown", c.DataSource.Type)
	}
	if c.Schedule.RefreshCron != "" {
		if _, err := scheduler.CronParser.Parse(c.Schedule.RefreshCron); err != nil {
			return fmt.Errorf("schedule.refresh_cron: %w", err)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Layout resolves the surface size for the configured variant.
func (c *Config) Layout() model.Layout {
	l := model.Variants[c.Chart.Variant]
	if c.Chart.Margin != nil {
		l.Margin = *c.Chart.Margin
	}
	return l
}

// ControllerOptions gathers the chart settings for the interaction controller.
func (c *Config) ControllerOptions() interaction.Options {
	opts := interaction.DefaultOptions
	opts.Scale = scale.Options{PricePadding: scale.DefaultOptions.PricePadding, VolumeBand: c.Chart.VolumeBand}
	if c.Chart.PricePadding != nil {
		opts.Scale.PricePadding = *c.Chart.PricePadding
	}
	opts.Render = render.DefaultOptions
	opts.Render.CandleRatio = c.Chart.CandleRatio
	opts.Render.HitRatio = c.Chart.HitRatio
	opts.Render.Title = c.Chart.Title
	opts.MaxZoom = c.Chart.MaxZoom
	opts.Currency = c.Chart.Currency
	return opts
}
