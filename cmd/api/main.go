package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"placefinder-api/internal/app"
	"placefinder-api/internal/config"
	"placefinder-api/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

//	@title			Placefinder API
//	@version		1.0
//	@description	Place search for the Athens area backed by Nominatim and Overpass.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(config.Log.Level, config.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize services")
	}
	defer a.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
