package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"CandleScope/internal/interaction"
	"CandleScope/internal/loader"
	"CandleScope/internal/notifier"
	"CandleScope/internal/recorder"
	"CandleScope/internal/render"

	"github.com/robfig/cron/v3"
)

// Sender delivers a chat message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler reloads the series on a cron spec and republishes the chart.
type Scheduler struct {
	Cron       *cron.Cron
	Source     loader.Source
	Controller *interaction.Controller
	Recorder   recorder.Recorder
	Notifier   Sender
	SVGPath    string
	Style      render.Style
	Title      string
	Currency   string

	// OnRefresh receives every freshly initialised state, e.g. to reload a live surface.
	OnRefresh func(context.Context, interaction.State) error
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. A nil notifier disables messages.
func NewScheduler(ctx context.Context, src loader.Source, ctrl *interaction.Controller, rec recorder.Recorder, tn Sender) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithParser(CronParser)),
		Source:     src,
		Controller: ctrl,
		Recorder:   rec,
		Notifier:   tn,
		Style:      render.DefaultStyle,
		Ctx:        ctx,
	}
}

// CronParser accepts five or six field specs (seconds optional) and descriptors like @daily.
var CronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Register adds the refresh job.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	if _, err := s.Refresh(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
	}
}

// Refresh loads the series, renders it to SVGPath, records the run and hands
// the new state to OnRefresh. On failure the previous chart is left in place.
func (s *Scheduler) Refresh(ctx context.Context) (interaction.State, error) {
	start := time.Now()
	log.Printf("[INFO] refreshing chart from %s", s.Source.Name())

	st, err := s.build(ctx)
	if err != nil {
		s.fail(ctx, err)
		return interaction.State{}, err
	}

	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, st.Scene, s.Controller.Layout(), s.Style); err != nil {
		err = fmt.Errorf("render svg: %w", err)
		s.fail(ctx, err)
		return interaction.State{}, err
	}
	if s.SVGPath != "" {
		if err := writeFileAtomic(s.SVGPath, buf.Bytes()); err != nil {
			s.fail(ctx, err)
			return interaction.State{}, err
		}
	}

	prev, err := s.Recorder.LastRender()
	if err != nil {
		log.Printf("[WARN] read last render: %v", err)
	}
	first := st.Series[0]
	last, _ := st.Series.Last()
	if err := s.Recorder.RecordRender(&recorder.RenderEvent{
		Source:    s.Source.Name(),
		Points:    len(st.Series),
		FirstDate: first.Date,
		LastDate:  last.Date,
		LastClose: last.Close,
		SVGPath:   s.SVGPath,
		Bytes:     buf.Len(),
		Duration:  time.Since(start),
	}); err != nil {
		log.Printf("[ERROR] record render: %v", err)
	}

	// only announce sessions that were not published before
	if prev == nil || last.Date.After(prev.LastDate) {
		s.trySend(ctx, notifier.FormatRefreshReport(s.Title, st.Series, s.Currency))
	}

	if s.OnRefresh != nil {
		if err := s.OnRefresh(ctx, st); err != nil {
			log.Printf("[WARN] publish refreshed chart: %v", err)
		}
	}
	log.Printf("[INFO] chart refreshed: %d sessions up to %s, %d bytes in %v",
		len(st.Series), last.Date.Format("2006-01-02"), buf.Len(), time.Since(start).Round(time.Millisecond))
	return st, nil
}

func (s *Scheduler) build(ctx context.Context) (interaction.State, error) {
	series, err := s.Source.Load(ctx)
	if err != nil {
		return interaction.State{}, fmt.Errorf("load %s: %w", s.Source.Name(), err)
	}
	st, err := s.Controller.Init(series)
	if err != nil {
		return interaction.State{}, fmt.Errorf("%s: %w", s.Source.Name(), err)
	}
	return st, nil
}

func (s *Scheduler) fail(ctx context.Context, err error) {
	log.Printf("[ERROR] refresh failed: %v", err)
	if rerr := s.Recorder.RecordLoadFailure(&recorder.LoadFailure{
		Source: s.Source.Name(),
		Err:    err.Error(),
	}); rerr != nil {
		log.Printf("[ERROR] record load failure: %v", rerr)
	}
	s.trySend(ctx, notifier.FormatLoadFailure(s.Source.Name(), err))
}

func (s *Scheduler) trySend(ctx context.Context, msg string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, msg, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

// writeFileAtomic replaces path so readers never see a half-written chart.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".chart-*.svg")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close svg: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
