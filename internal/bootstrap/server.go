package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skyfare/airline-service/api"
	"github.com/skyfare/airline-service/config"
	"github.com/skyfare/airline-service/internal/service/airplanes"
	"github.com/skyfare/airline-service/internal/service/auth"
	"github.com/skyfare/airline-service/internal/service/catalog"
	"github.com/skyfare/airline-service/internal/service/flights"
	"github.com/skyfare/airline-service/internal/service/orders"
	"github.com/skyfare/airline-service/pkg/logger"
)

// Deps carries the wired services into the HTTP layer.
type Deps struct {
	Auth      auth.AuthUseCase
	Catalog   *catalog.CatalogService
	Airplanes airplanes.AirplaneUseCase
	Flights   flights.FlightUseCase
	Orders    orders.OrderUseCase
	Log       logger.Logger
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, deps),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	deps.Log.Info("http server started", "address", cfg.HTTP.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter mounts every handler. Catalog and schedule reads require a
// logged-in user and writes are admin-only; countries and cities are admin
// for every operation, and orders belong to the authenticated user.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(deps.Log))
	router.Use(api.Auth(cfg.Auth.JWTSecret))

	admin := api.RequireAdmin()
	authed := api.RequireAuth()
	paginator := api.Paginator{
		PageSize:    cfg.Pagination.PageSize,
		MaxPageSize: cfg.Pagination.MaxPageSize,
	}

	root := router.Group("/api")
	api.NewUserHandler(deps.Auth).Register(root.Group("/users"))
	// reference-data management is staff-only end to end, reads included;
	// the rest of the catalog and the schedule read as any logged-in user
	// and mutate as staff
	api.NewNamedHandler(deps.Catalog.Countries, false).Register(root.Group("/countries", admin), admin)
	api.NewCityHandler(deps.Catalog.Cities).Register(root.Group("/cities", admin), admin)
	api.NewCrewHandler(deps.Catalog.Crews).Register(root.Group("/crews", authed), admin)
	api.NewNamedHandler(deps.Catalog.AirplaneTypes, true).Register(root.Group("/airplane-types", authed), admin)
	api.NewNamedHandler(deps.Catalog.AirCompanies, true).Register(root.Group("/air-companies", authed), admin)
	api.NewAirportHandler(deps.Catalog).Register(root.Group("/airports", authed), admin)
	api.NewRouteHandler(deps.Catalog).Register(root.Group("/routes", authed), admin)
	api.NewAirplaneHandler(deps.Airplanes).Register(root.Group("/airplanes", authed), admin)
	api.NewFlightHandler(deps.Flights, paginator).Register(root.Group("/flights", authed), admin)
	api.NewOrderHandler(deps.Orders, paginator).Register(root.Group("/orders"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Media.Dir != "" {
		router.Static("/media", cfg.Media.Dir)
	}
	if cfg.HTTP.DocsDir != "" {
		router.Static("/docs", cfg.HTTP.DocsDir)
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/docs/openapi.json"),
		)))
	}

	return router
}
