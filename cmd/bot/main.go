package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"StarMiner/internal/config"
	"StarMiner/internal/engine"
	"StarMiner/internal/notifier"
	"StarMiner/internal/recorder"
	"StarMiner/internal/scheduler"
	"StarMiner/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StarMiner starting...")

	// Load config
	cfgPath := "configs/config.yaml"
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
	rules := cfg.Rules()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init player store
	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("[FATAL] open player storage: %v", err)
	}
	st, err := store.NewMemory(ctx, backend, rules)
	if err != nil {
		log.Fatalf("[FATAL] load players: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.HistoryPath != "" {
		ensureDir(cfg.Database.HistoryPath)
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.HistoryPath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
		}
	}

	// Init notifiers
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)
	sinks := notifier.Fanout{tn}
	var feed *http.Server
	if cfg.Feed.Addr != "" {
		hub := notifier.NewHub()
		go hub.Run(ctx)
		sinks = append(sinks, hub)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWs)
		feed = &http.Server{Addr: cfg.Feed.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := feed.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[ERROR] feed server: %v", err)
			}
		}()
		log.Printf("[INFO] websocket feed listening on %s/ws", cfg.Feed.Addr)
	}

	// Init engine. The operator /stop exits a moment later so its reply
	// still goes out.
	stopCh := make(chan struct{}, 1)
	eng := engine.New(st, rules,
		engine.WithRecorder(rec),
		engine.WithNotifier(sinks),
		engine.WithAdmins(cfg.IsAdmin),
		engine.WithStop(func() {
			time.AfterFunc(time.Second, func() {
				select {
				case stopCh <- struct{}{}:
				default:
				}
			})
		}),
	)
	n, err := eng.RestorePending(ctx)
	if err != nil {
		log.Fatalf("[FATAL] restore pending actions: %v", err)
	}
	log.Printf("[INFO] %d players with expeditions in flight", n)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, eng)
	if err := sched.RegisterAll(cfg.Schedule.SweepCron, cfg.Schedule.BackupCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()

	// Start Telegram polling
	go tn.StartPolling(ctx, eng.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	go func() {
		for _, id := range cfg.Telegram.AdminIDs {
			if err := tn.Notify(ctx, id, notifier.FormatStarted(st.Len(), n)); err != nil {
				log.Printf("[WARN] start-up notice to admin %d: %v", id, err)
			}
		}
	}()

	log.Println("[INFO] StarMiner is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-stopCh:
		log.Println("[INFO] stop command received, stopping...")
	}
	cancel()
	sched.Stop()
	if feed != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		feed.Shutdown(shutdownCtx)
		done()
	}
	if err := eng.Shutdown(context.Background()); err != nil {
		log.Printf("[ERROR] final save: %v", err)
	}
	log.Println("[INFO] StarMiner stopped")
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	if cfg.Storage.SnapshotPath != "" {
		ensureDir(cfg.Storage.SnapshotPath)
		log.Printf("[INFO] player storage: snapshot %s", cfg.Storage.SnapshotPath)
		return store.NewSnapshotBackend(cfg.Storage.SnapshotPath), nil
	}
	ensureDir(cfg.Storage.SQLitePath)
	log.Printf("[INFO] player storage: sqlite %s", cfg.Storage.SQLitePath)
	return store.NewSQLiteBackend(cfg.Storage.SQLitePath)
}

func ensureDir(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] create directory for %s: %v", path, err)
	}
}
