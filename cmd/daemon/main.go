package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"pixelpet.ai/internal/game"
	"pixelpet.ai/internal/persistence/indexdb"
	"pixelpet.ai/internal/persistence/journal"
	"pixelpet.ai/internal/protocol"
	"pixelpet.ai/internal/transport/bridge"
	"pixelpet.ai/internal/transport/observer"
	"pixelpet.ai/internal/tuning"
)

func main() {
	var (
		socketPath = flag.String("socket", "", "unix socket path (default: tuning or $TMPDIR/claude_world.sock)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		obsAddr    = flag.String("observer_addr", "", "observer websocket listen address (empty: tuning default)")
		disableDB  = flag.Bool("disable_db", false, "disable the session stats index")
		disableLog = flag.Bool("disable_journal", false, "disable the event journal")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[daemon] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}
	if *socketPath != "" {
		tune.SocketPath = *socketPath
	}
	if *obsAddr != "" {
		tune.ObserverAddr = *obsAddr
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	st := game.NewState()
	engine := game.New(game.Config{
		TickRateHz:    tune.TickRateHz,
		DayTicks:      tune.DayTicks,
		IdleRestAfter: time.Duration(tune.IdleRestAfterSec) * time.Second,
	}, st, logger)

	if !*disableLog {
		j := journal.NewEventJournal(*dataDir)
		defer j.Close()
		engine.SetJournal(j)
	}
	if !*disableDB {
		idx, err := indexdb.Open(filepath.Join(*dataDir, "index", "stats.db"))
		if err != nil {
			logger.Fatalf("open stats index: %v", err)
		}
		defer idx.Close()
		engine.SetStatsIndex(idx)
	}

	srv := bridge.NewServer(tune.SocketPath, log.New(os.Stdout, "[bridge] ", log.LstdFlags|log.Lmicroseconds))
	srv.OnEvent(func(ctx context.Context, ev protocol.ClaudeEvent) error {
		return engine.DispatchClaudeEvent(ctx, ev)
	})
	srv.OnQuery(func(ctx context.Context, query string) (any, error) {
		return engine.Query(ctx, query)
	})
	srv.OnAction(func(ctx context.Context, action string, data map[string]any) (any, error) {
		return engine.Do(ctx, action, data)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("engine: %v", err)
		}
	}()

	if tune.ObserverAddr != "" {
		obs := observer.NewServer(engine, 0, log.New(os.Stdout, "[observer] ", log.LstdFlags|log.Lmicroseconds))
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/stream", obs.Handler())
		httpSrv := &http.Server{Addr: tune.ObserverAddr, Handler: mux}
		go func() {
			logger.Printf("observer stream on ws://%s/v1/stream", tune.ObserverAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("observer: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("bridge: %v", err)
	}
	logger.Printf("shutdown complete")
}
