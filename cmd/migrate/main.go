package main

import (
	"hotel/config"
	"hotel/helper"
	"hotel/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration command is required: up, down, drop, step-up or version")
	}

	cfg := config.Get()

	logger.Configure(cfg)

	var err error

	switch os.Args[1] {
	case helper.ActionUp:
		err = helper.Up(cfg)
	case helper.ActionDown:
		err = helper.Down(cfg)
	case helper.ActionDrop:
		err = helper.Drop(cfg)
	case helper.ActionStepUp:
		err = helper.StepUp(cfg)
	case helper.ActionVersion:
		err = helper.Version(cfg)
	default:
		log.Fatal().Str("command", os.Args[1]).Msg("Invalid command. Use 'up', 'down', 'drop', 'step-up' or 'version'")
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Migration failed")
	}
}
