package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MichelSalibaa/ZiadSupplies/internal/cache"
	"github.com/MichelSalibaa/ZiadSupplies/internal/client"
	"github.com/MichelSalibaa/ZiadSupplies/internal/config"
	"github.com/MichelSalibaa/ZiadSupplies/internal/email"
	"github.com/MichelSalibaa/ZiadSupplies/internal/queue"
	"github.com/MichelSalibaa/ZiadSupplies/internal/repository"
	"github.com/MichelSalibaa/ZiadSupplies/internal/server"
	"github.com/MichelSalibaa/ZiadSupplies/internal/service"
	"github.com/MichelSalibaa/ZiadSupplies/internal/storefront"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	CatalogRepo  repository.CatalogRepository
	OrderRepo    repository.OrderRepository
	Queue        queue.Queue
	CatalogCache cache.CatalogCache
	Client       client.StorefrontClient

	Service    *service.Service
	API        *server.API
	Storefront *storefront.Handler

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if err := repository.RunMigrations(cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db

	if err := repository.SeedCatalog(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	container.CatalogRepo = repository.NewCatalogRepository(db)
	container.OrderRepo = repository.NewOrderRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	_, err = rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Connected to Redis successfully")
	container.redis = rdb

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	catalogCache := cache.NewRedisCatalogCache(rdb, time.Duration(cfg.Redis.CatalogTTL)*time.Second)
	container.CatalogCache = catalogCache

	// Seeding may have changed products since the last run
	if err := catalogCache.Invalidate(context.Background()); err != nil {
		log.Warnf("Failed to invalidate catalog cache: %v", err)
	}

	emailSender := email.NewSMTPSender(cfg.Email)

	container.Service = service.NewService(
		container.OrderRepo,
		emailSender,
		redisQueue,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)

	container.API = server.NewAPI(container.CatalogRepo, container.OrderRepo, catalogCache, redisQueue)

	storefrontClient := client.NewStorefrontClient(cfg.Backend)
	container.Client = storefrontClient
	container.Storefront = storefront.NewHandler(storefrontClient)

	return container, nil
}

// Run starts the API server, the storefront server and the email workers,
// and blocks until one of them fails or the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", c.Config.Server.Host, c.Config.Server.Port),
		Handler: c.API.Routes(),
	}
	storefrontServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", c.Config.Storefront.Host, c.Config.Storefront.Port),
		Handler: c.Storefront.Routes(),
	}

	g.Go(func() error {
		log.Infof("API listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Infof("Storefront listening on %s", storefrontServer.Addr)
		if err := storefrontServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Email.Workers)
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("API shutdown failed: %v", err)
		}
		if err := storefrontServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Storefront shutdown failed: %v", err)
		}
		return nil
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
