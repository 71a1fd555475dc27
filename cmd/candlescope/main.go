package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"CandleScope/internal/config"
	"CandleScope/internal/interaction"
	"CandleScope/internal/loader"
	"CandleScope/internal/notifier"
	"CandleScope/internal/recorder"
	"CandleScope/internal/render"
	"CandleScope/internal/scheduler"
	"CandleScope/internal/server"

	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CandleScope starting...")

	// Load config
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if cfg.Log.File != "" {
		closer, err := setupLogFile(cfg.Log.File)
		if err != nil {
			log.Fatalf("[FATAL] open log file: %v", err)
		}
		defer closer.Close()
	}

	// Init data source
	var src loader.Source
	switch cfg.DataSource.Type {
	case config.SourceYahoo:
		src = loader.NewYahooSource(cfg.DataSource.Symbol, cfg.DataSource.Range, cfg.Proxy)
	default:
		src = loader.NewFileSource(cfg.DataSource.Path)
	}
	log.Printf("[INFO] data source: %s", src.Name())

	layout := cfg.Layout()
	ctrl := interaction.NewController(layout, cfg.ControllerOptions())
	log.Printf("[INFO] surface %vx%v (%s)", layout.Width, layout.Height, cfg.Chart.Variant)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	var sender scheduler.Sender
	if tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy); tn.Enabled() {
		sender = tn
		log.Println("[INFO] telegram notifications enabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, src, ctrl, rec, sender)
	sched.SVGPath = cfg.Chart.SVGPath
	sched.Title = cfg.Chart.Title
	sched.Currency = cfg.Chart.Currency

	// The first load is terminal on failure.
	state, err := sched.Refresh(ctx)
	if err != nil {
		log.Fatalf("[FATAL] initial render: %v", err)
	}
	log.Printf("[INFO] chart written to %s", cfg.Chart.SVGPath)

	if cfg.Server.Addr == "" && cfg.Schedule.RefreshCron == "" {
		return
	}

	errCh := make(chan error, 1)
	if cfg.Server.Addr != "" {
		srv := server.New(ctrl, state, render.DefaultStyle)
		sched.OnRefresh = srv.Reload
		go func() { errCh <- srv.Run(ctx, cfg.Server.Addr) }()
	}

	if cfg.Schedule.RefreshCron != "" {
		if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
			log.Fatalf("[FATAL] register cron task: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	log.Println("[INFO] CandleScope is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.Printf("[ERROR] http surface: %v", err)
		}
	}
	cancel()
	log.Println("[INFO] CandleScope stopped")
}

// setupLogFile tees the standard logger into a rotating file.
func setupLogFile(filename string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, err
	}
	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, logWriter))
	return logWriter, nil
}
