package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CHART_DATA_PATH", "CHART_SVG_PATH", "CHART_ADDR", "CHART_REFRESH_CRON", "SQLITE_PATH",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func ptr(v float64) *float64 { return &v }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Chart.Title != "IBEX 35" || cfg.Chart.Currency != "€" || cfg.DataSource.Type != SourceCSV {
		t.Errorf("unexpected defaults: %+v", cfg.Chart)
	}
	l := cfg.Layout()
	if l.Width != 1100 || l.Height != 600 || l.Margin.Left != 40 {
		t.Errorf("layout = %+v", l)
	}
	opts := cfg.ControllerOptions()
	if opts.MaxZoom != 5 || opts.Render.Title != "IBEX 35" || opts.Scale.PricePadding != 200 {
		t.Errorf("controller options = %+v", opts)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
chart:
  title: S&P 500
  variant: wide
  currency: $
  hit_ratio: 1.5
  margin: {top: 20, bottom: 50, left: 60, right: 20}
data_source:
  type: yahoo
  symbol: SPX500
schedule:
  refresh_cron: "0 0 22 * * 1-5"
`)
	t.Setenv("CHART_ADDR", ":9090")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Database.SQLitePath != "/tmp/x.db" {
		t.Errorf("env overrides not applied: addr=%q sqlite=%q", cfg.Server.Addr, cfg.Database.SQLitePath)
	}
	l := cfg.Layout()
	if l.Width != 1200 || l.Margin.Left != 60 || l.PlotWidth() != 1120 {
		t.Errorf("layout = %+v", l)
	}
	if cfg.ControllerOptions().Render.HitRatio != 1.5 {
		t.Error("hit ratio not carried to render options")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "chart: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_ZeroPricePadding(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "chart:\n  price_padding: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.ControllerOptions().Scale.PricePadding; got != 0 {
		t.Errorf("price padding = %v, want an explicit 0 to be kept", got)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown variant", func(c *Config) { c.Chart.Variant = "huge" }, "variant"},
		{"hit ratio too small", func(c *Config) { c.Chart.HitRatio = 1.1 }, "hit_ratio"},
		{"hit ratio too large", func(c *Config) { c.Chart.HitRatio = 2 }, "hit_ratio"},
		{"max zoom below one", func(c *Config) { c.Chart.MaxZoom = 0.5 }, "max_zoom"},
		{"negative price padding", func(c *Config) { c.Chart.PricePadding = ptr(-1.0) }, "price_padding"},
		{"unknown source", func(c *Config) { c.DataSource.Type = "ftp" }, "data_source.type"},
		{"bad cron", func(c *Config) { c.Schedule.RefreshCron = "every day" }, "refresh_cron"},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }, "telegram"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}
