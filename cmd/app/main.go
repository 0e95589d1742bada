package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/airline-service/config"
	"github.com/skyfare/airline-service/internal/bootstrap"
	"github.com/skyfare/airline-service/internal/cache"
	"github.com/skyfare/airline-service/internal/kafka"
	"github.com/skyfare/airline-service/internal/media"
	"github.com/skyfare/airline-service/internal/repository"
	"github.com/skyfare/airline-service/internal/service/airplanes"
	"github.com/skyfare/airline-service/internal/service/auth"
	"github.com/skyfare/airline-service/internal/service/catalog"
	"github.com/skyfare/airline-service/internal/service/flights"
	"github.com/skyfare/airline-service/internal/service/orders"
	"github.com/skyfare/airline-service/pkg/logger"
	"github.com/skyfare/airline-service/pkg/metrics"
)

func main() {
	log := logger.NewLogger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RouteCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	imageStore := media.NewStore(cfg.Media.Dir)
	m := metrics.NewMetrics("airline")

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	catalogService := catalog.NewCatalogService(
		repository.NewCountryRepository(pool),
		repository.NewCityRepository(pool),
		repository.NewCrewRepository(pool),
		repository.NewAirplaneTypeRepository(pool),
		repository.NewAirCompanyRepository(pool),
		repository.NewAirportRepository(pool),
		repository.NewRouteRepository(pool),
		redisCache,
		imageStore,
		log,
	)

	orderService := orders.NewOrderService(
		orderRepo,
		flightRepo,
		userRepo,
		redisCache,
		producer,
		cfg.Kafka.OrdersTopic,
		time.Duration(cfg.Booking.SeatHoldTTLSeconds)*time.Second,
		log,
		orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		orders.WithMetrics(m),
	)

	deps := bootstrap.Deps{
		Auth:      auth.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute),
		Catalog:   catalogService,
		Airplanes: airplanes.NewAirplaneService(repository.NewAirplaneRepository(pool)),
		Flights:   flights.NewFlightService(flightRepo),
		Orders:    orderService,
		Log:       log,
	}

	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		log.Fatal("server error", "error", err)
	}
}
