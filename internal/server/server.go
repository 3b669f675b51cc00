// Package server assembles the storefront and reference API HTTP servers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"grindgears/internal/addressbook"
	"grindgears/internal/catalog"
	"grindgears/internal/checkout"
	"grindgears/internal/config"
	"grindgears/internal/database"
	"grindgears/internal/gearsapi"
	custommiddleware "grindgears/internal/middleware"
	"grindgears/internal/notify"
	"grindgears/internal/remote"
	"grindgears/internal/repository"
	"grindgears/internal/store"
	"grindgears/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	*http.Server
	logger *zap.Logger

	catalog  *catalog.Provider
	store    *store.Store
	checkout *checkout.Service
	redis    *redis.Client
	db       *database.Service
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func newRouter(logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	return router
}

// NewStorefront wires the storefront against the GrindGears API at
// cfg.GearsAPI.BaseURL. redisClient may be nil, in which case requests are
// not rate limited.
func NewStorefront(cfg *config.Config, logger *zap.Logger, redisClient *redis.Client) *Server {
	router := newRouter(logger)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "storefront:ratelimit",
		}, logger))
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	client := remote.New(cfg.GearsAPI.BaseURL,
		remote.WithTimeout(cfg.GearsAPI.Timeout),
		remote.WithLogger(logger),
	)

	feed := notify.NewFeed(0)
	notifier := notify.Multi{feed, notify.NewLog(logger.Named("notify"))}

	provider := catalog.NewProvider(client, logger)
	holder := store.New(client, notifier, logger, store.WithProductLookup(provider))
	book := addressbook.New(client, notifier, logger)
	orders := checkout.New(holder, book, client, notifier, logger,
		checkout.WithClearDelay(cfg.Checkout.ClearDelay),
	)

	transport.NewHandler(provider, holder, book, orders, feed, logger).RegisterRoutes(router)

	return &Server{
		Server:   newHTTPServer(cfg.Server.Port, router),
		logger:   logger,
		catalog:  provider,
		store:    holder,
		checkout: orders,
		redis:    redisClient,
	}
}

// NewGearsAPI wires the reference API over repos. db is the database behind
// repos, or nil for in-memory storage.
func NewGearsAPI(cfg *config.Config, logger *zap.Logger, repos *repository.Repositories, db *database.Service) *Server {
	router := newRouter(logger)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{"status": "ok", "storage": "memory"}
		statusCode := http.StatusOK
		if db != nil {
			health = db.Health(r.Context())
			health["storage"] = "postgres"
			if health["status"] != "up" {
				statusCode = http.StatusServiceUnavailable
			}
		}
		custommiddleware.RespondWithJSON(w, statusCode, health)
	})

	gearsapi.New(repos, logger).RegisterRoutes(router)

	return &Server{
		Server: newHTTPServer(cfg.GearsAPI.Port, router),
		logger: logger,
		db:     db,
	}
}

// Preload fetches the catalog, cart and wishlist so the first requests are
// served from memory. The loads run independently: a failing one is logged
// and left for later refreshes without discarding the other.
func (s *Server) Preload(ctx context.Context) {
	if s.store == nil {
		return
	}

	var g errgroup.Group
	g.Go(func() error {
		if _, err := s.catalog.Load(ctx, ""); err != nil {
			s.logger.Warn("Catalog preload failed", zap.Error(err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := s.store.Load(ctx); err != nil {
			s.logger.Warn("Cart preload failed", zap.Error(err))
			return err
		}
		return nil
	})

	s.logger.Info("Preload finished",
		zap.Bool("complete", g.Wait() == nil),
		zap.Int("products", len(s.catalog.Products())),
		zap.Int("cart_items", s.store.Count()),
	)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.checkout != nil {
		s.checkout.Close()
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
