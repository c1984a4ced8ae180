package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/0xAtelerix/talentgraph/config"
	"github.com/0xAtelerix/talentgraph/indexer"
	"github.com/0xAtelerix/talentgraph/ipfs"
	"github.com/0xAtelerix/talentgraph/library/subscriber"
	"github.com/0xAtelerix/talentgraph/mapping"
	"github.com/0xAtelerix/talentgraph/metadata"
	"github.com/0xAtelerix/talentgraph/store"
	"github.com/0xAtelerix/talentgraph/store/pgstore"
	"github.com/0xAtelerix/talentgraph/tokenmeta"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger := newLogger(cfg.Log, os.Stderr)
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, &logger); err != nil {
		logger.Fatal().Err(err).Msg("Indexer stopped")
	}

	logger.Info().Msg("Indexer stopped")
}

func newLogger(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return pgstore.Open(ctx, cfg.PostgresDSN)
	default:
		return store.OpenMDBX(cfg.Path)
	}
}

func newFetcher(cfg config.IPFSConfig, logger *zerolog.Logger) ipfs.Fetcher {
	if cfg.Dir != "" {
		return ipfs.NewDirFetcher(cfg.Dir, cfg.DirWait, cfg.DirSettle, logger)
	}

	return ipfs.NewGatewayFetcher(cfg.Gateway, cfg.RPS, cfg.Burst, cfg.Timeout, cfg.MaxDocumentSize)
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	db, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", cfg.RPCURL, err)
	}
	defer client.Close()

	sub := subscriber.NewSubscriber()
	m := mapping.NewMapper(tokenmeta.NewEnricher(client, logger), ipfs.NewScheduler(logger), logger)

	if err = m.Register(sub, cfg.Contracts.Addresses()); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	idx := indexer.New(indexer.Config{
		StartBlock:    cfg.StartBlock,
		Confirmations: cfg.Confirmations,
		BatchSize:     cfg.BatchSize,
		PollInterval:  cfg.PollInterval,
	}, client, sub, db, logger)

	docs := indexer.NewDocuments(db, newFetcher(cfg.IPFS, logger), metadata.NewHandlers(logger),
		cfg.IPFS.BatchSize, cfg.IPFS.PollInterval, logger)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           newRouter(idx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return idx.Run(gctx)
	})

	g.Go(func() error {
		return docs.Run(gctx)
	})

	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
