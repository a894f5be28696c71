// Command indexer mirrors governance and vote-aggregator accounts into
// snapshot storage, then keeps them current over program subscriptions and
// periodic resyncs. It serves /health and /metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/config"
	"solana-governance-kit/internal/indexer"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/schema"
	"solana-governance-kit/internal/solana"
	"solana-governance-kit/internal/storage"
	"solana-governance-kit/internal/storage/memory"
	"solana-governance-kit/internal/storage/migrations"
	pgstore "solana-governance-kit/internal/storage/postgres"
	"solana-governance-kit/internal/voterweight"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("indexer", pflag.ContinueOnError)
	families := fs.StringSlice("family", []string{string(codec.FamilyGovernance), string(codec.FamilyAggregator)}, "Program families to index")
	records := fs.StringSlice("record", nil, "Restrict to these record types")
	watch := fs.Bool("watch", true, "Follow program subscriptions after the initial sync")
	interval := fs.Duration("resync-interval", 10*time.Minute, "Full resync interval, 0 disables")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	if !cfg.Storage.UseMemory && cfg.Storage.PostgresDSN == "" {
		return errors.New("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}
	defer logger.Sync()
	indexer.SetLogger(logger.Named("indexer"))
	solana.SetLogger(logger.Named("solana"))
	voterweight.SetLogger(logger.Named("voterweight"))

	targets, err := buildTargets(cfg, *families, *records)
	if err != nil {
		return err
	}
	logger.Info("indexing", zap.Int("targets", len(targets)))

	snapshots, ready, cleanup, err := createStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	rpc := solana.NewHTTPClient(cfg.RPC.Endpoint,
		solana.WithTimeout(cfg.RPC.Timeout),
		solana.WithMaxRetries(cfg.RPC.MaxRetries))

	opts := indexer.Options{
		RPC:       rpc,
		Catalog:   schema.Catalog(),
		Snapshots: snapshots,
	}
	if *watch {
		ws, err := solana.NewWSClient(ctx, cfg.RPC.WSEndpoint, nil)
		if err != nil {
			return fmt.Errorf("connect websocket: %w", err)
		}
		defer ws.Close()
		opts.WS = ws
	}
	ix := indexer.New(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(ctx, cfg.Metrics.Addr, ready, logger)
	})

	if _, err := ix.SyncAll(ctx, targets); err != nil {
		return err
	}
	observability.DefaultMetrics.LastSuccessfulSync.SetToCurrentTime()

	if *watch {
		for _, t := range targets {
			t := t
			g.Go(func() error {
				return ix.Watch(ctx, t)
			})
		}
	}
	if *interval > 0 {
		g.Go(func() error {
			return resync(ctx, ix, targets, *interval, logger)
		})
	}
	return g.Wait()
}

func buildTargets(cfg config.Config, families, records []string) ([]indexer.Target, error) {
	c := schema.Catalog()
	var targets []indexer.Target
	for _, f := range families {
		var program = cfg.AggregatorProgram
		switch codec.Family(f) {
		case codec.FamilyGovernance:
			program = cfg.GovernanceProgram
		case codec.FamilyAggregator:
		default:
			return nil, fmt.Errorf("unknown family %q", f)
		}
		key, err := program()
		if err != nil {
			return nil, err
		}
		targets = append(targets, indexer.Targets(c, codec.Family(f), key)...)
	}

	if len(records) == 0 {
		return targets, nil
	}
	want := make(map[string]bool, len(records))
	for _, r := range records {
		if _, err := c.Account(r); err != nil {
			return nil, err
		}
		want[r] = true
	}
	var filtered []indexer.Target
	for _, t := range targets {
		if want[t.Record] {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return nil, errors.New("no record type matches --record within --family")
	}
	return filtered, nil
}

type readyFunc func(context.Context) error

func createStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.AccountSnapshotStore, readyFunc, func(), error) {
	if cfg.Storage.UseMemory {
		return memory.NewAccountSnapshotStore(), nil, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN,
		pgstore.WithApplicationName("governance-indexer"))
	if err != nil {
		return nil, nil, nil, err
	}
	applied, err := migrations.RunPostgresMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", zap.Strings("versions", applied))
	}
	return pgstore.NewAccountSnapshotStore(pool), pool.Ready, pool.Close, nil
}

func resync(ctx context.Context, ix *indexer.Indexer, targets []indexer.Target, every time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := ix.SyncAll(ctx, targets); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// A failed round is retried on the next tick.
				logger.Warn("resync failed", zap.Error(err))
				continue
			}
			observability.DefaultMetrics.LastSuccessfulSync.SetToCurrentTime()
		}
	}
}

func newMux(ready readyFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	return mux
}

func serveHTTP(ctx context.Context, addr string, ready readyFunc, logger *zap.Logger) error {
	srv := &http.Server{Addr: addr, Handler: newMux(ready), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving http", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
