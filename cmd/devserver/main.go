package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wordchain/handler"
	"wordchain/internal/app"
	"wordchain/internal/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	h, err := app.NewHandler(context.Background(), cfg, log.Logger, app.AllowMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create handler")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("port", cfg.Port).Msg("starting dev server")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
