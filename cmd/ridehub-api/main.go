// README: Entry point; loads config, wires stores, event transport and the ride engine, then serves HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ridehub/internal/config"
	httptransport "ridehub/internal/http"
	"ridehub/internal/http/handlers"
	"ridehub/internal/http/middleware"
	"ridehub/internal/infra"
	"ridehub/internal/logging"
	"ridehub/internal/maps"
	"ridehub/internal/modules/notify"
	"ridehub/internal/modules/ride"
	"ridehub/internal/modules/vehicle"
	"ridehub/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("ridehub-api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile, cfg.Firebase.CheckRevoked)
	if err != nil {
		return fmt.Errorf("firebase init: %w", err)
	}

	var (
		gateway  ride.Gateway
		vehicles handlers.VehicleStore
		pool     *pgxpool.Pool
	)
	switch cfg.Store.Kind {
	case config.StorePostgres:
		pool, err = infra.NewDB(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := migrations.Apply(ctx, pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema applied")
		}
		gateway = ride.NewStore(pool)
		vehicles = vehicle.NewStore(pool)
	default:
		logger.Warn("using in-memory store; state is lost on restart")
		gateway = ride.NewMemStore()
		vehicles = vehicle.NewMemStore()
	}

	var (
		publisher   ride.Publisher = notify.Nop{}
		redisClient *redis.Client
	)
	switch cfg.Events.Transport {
	case config.TransportRedis:
		redisClient, err = infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		publisher = notify.NewRedisPublisher(redisClient, cfg.Redis.Stream, cfg.Redis.StreamMaxLen)
	case config.TransportNATS:
		nc, err := infra.NewNATS(cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		defer nc.Drain()
		publisher = notify.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix)
	}

	drivers, err := infra.NewFirebaseDirectory(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile,
		cfg.Firebase.RolesClaim, cfg.Firebase.OrgClaim)
	if err != nil {
		return fmt.Errorf("firebase directory init: %w", err)
	}

	deps := ride.Deps{
		Gateway:   gateway,
		Vehicles:  vehicles,
		Publisher: publisher,
		Drivers:   drivers,
		Logger:    logger.Named("ride"),
	}
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return fmt.Errorf("maps init: %w", err)
		}
		deps.Distance = routes
	}
	rides := ride.NewService(deps)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Rides:    rides,
		Vehicles: vehicles,
		Verifier: verifier,
		Claims: middleware.ClaimNames{
			Roles: cfg.Firebase.RolesClaim,
			Org:   cfg.Firebase.OrgClaim,
		},
		Logger: logger.Named("http"),
		Ready: func(ctx context.Context) error {
			var errs []error
			if pool != nil {
				errs = append(errs, pool.Ping(ctx))
			}
			if redisClient != nil {
				errs = append(errs, redisClient.Ping(ctx).Err())
			}
			return errors.Join(errs...)
		},
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router, logger)
	logger.Info("ridehub-api listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("store", cfg.Store.Kind),
		zap.String("events", cfg.Events.Transport))
	return server.Run(ctx)
}
