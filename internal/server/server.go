// Package server exposes the game over HTTP: accounts, code samples,
// leaderboards and the static frontend.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"codeguess/internal/account"
	"codeguess/internal/catalog"
	"codeguess/internal/config"
	"codeguess/internal/lan"
	"codeguess/internal/leaderboard"
	"codeguess/internal/session"
	"codeguess/internal/storage"
	"codeguess/internal/storage/boltstore"
	"codeguess/internal/storage/filestore"
	"codeguess/internal/storage/mongostore"
)

type Server struct {
	addr      string
	port      int
	staticDir string
	indexFile string
	devMode   bool
	shareURL  string

	logger   *slog.Logger
	store    storage.Store
	accounts *account.Store
	sessions *session.Manager
	board    *leaderboard.Aggregator
	catalog  *catalog.Catalog
	metrics  *metrics

	rateMu      sync.Mutex
	rateByIP    map[string][]time.Time
	rateLimited map[string]struct{}

	router *chi.Mux
}

// New opens the configured store and scans the sample directory once.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	files := catalog.Discover(cfg.SamplesDir, cfg.CatalogOptions())
	cat := catalog.New(files, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if cat.Len() == 0 {
		logger.Warn("no source files found", slog.String("dir", cfg.SamplesDir))
	} else {
		logger.Info("samples loaded", slog.String("dir", cfg.SamplesDir), slog.String("catalog", cat.String()))
	}

	return newServer(cfg, store, cat, logger), nil
}

func newServer(cfg *config.Config, store storage.Store, cat *catalog.Catalog, logger *slog.Logger) *Server {
	accounts := account.NewStore(store, logger)
	sessions := session.NewManager()

	s := &Server{
		addr:      net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port)),
		port:      cfg.Port,
		staticDir: cfg.StaticDir,
		indexFile: cfg.IndexFile,
		devMode:   cfg.Dev,
		shareURL:  lan.ShareURL(lan.LocalIPv4(), cfg.Port),
		logger:    logger,
		store:     store,
		accounts:  accounts,
		sessions:  sessions,
		board:     leaderboard.New(store, accounts, logger),
		catalog:   cat,
		rateByIP:  make(map[string][]time.Time),
	}
	s.metrics = newMetrics(sessions, cat)

	s.setupRouter()
	return s
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case storage.BackendFile:
		return filestore.New(cfg.DataDir)
	case storage.BackendBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.BoltPath), 0o755); err != nil {
			return nil, fmt.Errorf("create bolt dir: %w", err)
		}
		return boltstore.New(ctx, cfg.BoltPath)
	case storage.BackendMongo:
		return mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down and releases the store.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		WriteTimeout:      httpTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	s.logger.Info("server started",
		slog.String("url", "http://localhost:"+strconv.Itoa(s.port)),
		slog.String("lan_url", s.shareURL),
		slog.Int("source_files", s.catalog.Len()),
	)

	var runErr error
	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		s.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown", slog.Any("error", err))
	}

	return errors.Join(runErr, s.Close(shutdownCtx))
}

// Close drops every session and closes the store.
func (s *Server) Close(ctx context.Context) error {
	s.sessions.Close()
	if err := s.store.Close(ctx); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
