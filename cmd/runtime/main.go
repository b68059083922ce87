package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/routegraph/internal/aggregator"
	"github.com/hxuan190/routegraph/internal/common"
	"github.com/hxuan190/routegraph/internal/config"
	"github.com/hxuan190/routegraph/internal/http"
)

func main() {
	// .env is optional; plain environment variables work as well
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	general := &config.GeneralConfig{}
	if err := general.Load(); err != nil {
		log.Error().Err(err).Msg("invalid general config")
		return
	}
	common.InitLogger(general.LogLevel, general.Env)
	common.InitRuntime()

	// di container config
	conf := container.NewConf(
		general,
		&config.RPCConfig{},
		&config.GraphConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&aggregator.Service{},
		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	// waits for SIGINT/SIGTERM
	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
