package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/park285/chainchess/internal/api"
	"github.com/park285/chainchess/internal/archive"
	appcfg "github.com/park285/chainchess/internal/config"
	"github.com/park285/chainchess/internal/ladder"
	"github.com/park285/chainchess/internal/match"
	"github.com/park285/chainchess/internal/msgcat"
	"github.com/park285/chainchess/internal/notify"
	"github.com/park285/chainchess/internal/obslog"
	"github.com/park285/chainchess/internal/query"
	"github.com/park285/chainchess/internal/render"
	"github.com/park285/chainchess/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.Init(cfg.Log); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	if err := run(cfg); err != nil {
		obslog.L().Error("chainchess_exit", zap.Error(err))
		obslog.Sync()
		os.Exit(1)
	}
}

func run(cfg *appcfg.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return err
	}

	kv, closeKV, err := openStore(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeKV()
	records := store.NewRecords(kv, cfg.StorePrefix)

	publisher, err := notify.New(string(cfg.NotifyMode), cfg.NotifyURL, cfg.NotifyTimeout)
	if err != nil {
		return err
	}

	opts := []ladder.Option{
		ladder.WithReferee(match.NewReferee()),
		ladder.WithCatalog(catalog),
		ladder.WithNotifier(publisher),
	}
	if cfg.DatabaseURL != "" {
		repo, err := archive.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()
		opts = append(opts, ladder.WithArchive(repo))
		obslog.L().Info("archive_ready")
	}

	svc := ladder.New(records, opts...)
	reader := query.NewReader(records, cfg.LeaderboardDefault)
	srv := api.New(svc, reader,
		api.WithCatalog(catalog),
		api.WithRenderer(render.NewRenderer(render.DefaultSquareSize)),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(cfg.ListenAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		obslog.L().Info("chainchess_shutdown")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(sctx), publisher.Close(sctx))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStore picks Redis when a URL is configured and the in-process store otherwise.
func openStore(ctx context.Context, redisURL string) (store.KV, func(), error) {
	if redisURL == "" {
		obslog.L().Warn("store_memory", zap.String("reason", "REDIS_URL is empty, state is not durable"))
		return store.NewMemoryKV(), func() {}, nil
	}
	octx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := store.OpenRedis(octx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	kv := store.NewRedisKV(rdb)
	obslog.L().Info("store_redis")
	return kv, func() { _ = kv.Close() }, nil
}
