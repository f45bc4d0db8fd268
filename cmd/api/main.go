package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplies-backend/bootstrap"
	"supplies-backend/internal/application/reconcile"
	"supplies-backend/internal/infrastructure/cache"

	"github.com/rs/zerolog/log"
)

func main() {
	fapp, rt, err := bootstrap.New()
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}
	defer rt.Close()

	// Verify connections before listening
	sqlDB, err := rt.DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle")
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("database connected")
	if rt.Rdb != nil {
		if err := cache.Ping(context.Background(), rt.Rdb); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Info().Msg("redis connected")
	}

	scheduler, err := reconcile.Schedule(rt.Config.ReconcileSchedule, rt.Services.Reconcile)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", rt.Config.ReconcileSchedule).Msg("invalid reconcile schedule")
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info().Msg("shutting down")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		_ = fapp.ShutdownWithTimeout(10 * time.Second)
	}()

	port := rt.Config.Port
	log.Info().Str("port", port).Msgf("Server running at http://localhost:%s", port)
	log.Info().Msgf("Health check: http://localhost:%s/health/json", port)
	if err := fapp.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
