// Command server wires the DomusVita belegung service: stores selected by
// config, the room registry, the intake pipeline, the assignment coordinator
// and the cost model, all behind one chi router.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"domusvita/internal/belegung"
	belegungHandler "domusvita/internal/belegung/handler"
	belegungMetrics "domusvita/internal/belegung/metrics"
	"domusvita/internal/klienten"
	klientenHandler "domusvita/internal/klienten/handler"
	klientenMetrics "domusvita/internal/klienten/metrics"
	klientenPostgres "domusvita/internal/klienten/store/postgres"
	"domusvita/internal/kosten"
	kostenHandler "domusvita/internal/kosten/handler"
	"domusvita/internal/platform/config"
	"domusvita/internal/platform/httpserver"
	"domusvita/internal/platform/kafka"
	"domusvita/internal/platform/logger"
	platformRedis "domusvita/internal/platform/redis"
	httptransport "domusvita/internal/transport/http"
	"domusvita/internal/wg"
	wgHandler "domusvita/internal/wg/handler"
	wgMetrics "domusvita/internal/wg/metrics"
	wgPostgres "domusvita/internal/wg/store/postgres"
	"domusvita/pkg/ledger"
	ledgerMemory "domusvita/pkg/ledger/store/memory"
	ledgerPostgres "domusvita/pkg/ledger/store/postgres"
	"domusvita/pkg/ledger/store/redisstore"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	var (
		klientenStore klienten.Store = klienten.NewInMemoryStore()
		wgStore       wg.Store       = wg.NewInMemoryStore()
		ledgerStore   ledger.Store   = ledgerMemory.NewInMemoryStore()
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return err
		}
		for _, schema := range []string{klientenPostgres.Schema, wgPostgres.Schema, ledgerPostgres.Schema} {
			if _, err := db.Exec(schema); err != nil {
				return err
			}
		}
		klientenStore = klientenPostgres.New(db)
		wgStore = wgPostgres.New(db)
		ledgerStore = ledgerPostgres.New(db)
		log.Info("using postgres stores")
	}

	if cfg.RedisURL != "" {
		client, err := platformRedis.New(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		ledgerStore = redisstore.New(client.Client)
		log.Info("using redis ledger store")
	}

	var ledgerOpts []ledger.Option
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaLedgerTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
		ledgerOpts = append(ledgerOpts, ledger.WithSink(sink))
		log.Info("ledger kafka sink enabled", "topic", cfg.KafkaLedgerTopic)
	}
	ledgerPublisher := ledger.NewPublisher(ledgerStore, log, ledgerOpts...)

	registry := wg.NewRegistry(wgStore, wgMetrics.New())
	pipeline := klienten.NewService(klientenStore, ledgerPublisher, registry, log, klientenMetrics.New())
	coordinator := belegung.NewCoordinator(klientenStore, registry, ledgerPublisher, cfg.AssignTimeout, log, belegungMetrics.New())
	pipeline.SetReleaser(coordinator)
	kostenService := kosten.NewService(registry, nil)

	router := httptransport.NewRouter(
		klientenHandler.New(pipeline, coordinator, log),
		wgHandler.New(registry, log),
		belegungHandler.New(coordinator, log),
		kostenHandler.New(kostenService, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting domusvita server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
