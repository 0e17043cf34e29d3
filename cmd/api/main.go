// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"drivehire/internal/config"
	httptransport "drivehire/internal/http"
	"drivehire/internal/infra"
	"drivehire/internal/maps"
	"drivehire/internal/modules/booking"
	"drivehire/internal/modules/driver"
	"drivehire/internal/modules/stats"
	"drivehire/internal/modules/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger, err := infra.NewLogger(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var routeSvc *maps.RouteService
	var placesSvc *maps.PlacesService
	if cfg.Maps.APIKey != "" {
		routeSvc, err = maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("maps init", zap.Error(err))
		}
		placesSvc, err = maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			logger.Fatal("maps init", zap.Error(err))
		}
	}

	driverStore := driver.NewStore(dbPool)
	driverSvc := driver.NewService(driverStore, logger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	guard := driver.NewGuard()

	bookingStore := booking.NewStore(dbPool, guard)
	bookingSvc := booking.NewService(bookingStore, logger)

	userStore := user.NewStore(dbPool)
	userSvc := user.NewService(userStore, logger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	statsStore := stats.NewStore(dbPool, redisClient)
	statsSvc := stats.NewService(statsStore, logger)

	srv := httptransport.NewServer(httptransport.ServerDeps{
		Booking:   bookingSvc,
		Driver:    driverSvc,
		User:      userSvc,
		Stats:     statsSvc,
		Routes:    routeSvc,
		Places:    placesSvc,
		JWTSecret: cfg.Auth.JWTSecret,
		Log:       logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: srv.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
