package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/p-blackswan/spatialflow/internal/cli"
	"github.com/p-blackswan/spatialflow/internal/render"
)

func main() {
	// Setup structured logging. Views go to stdout, so logs go to stderr. The CLI
	// switches to console output once config says this is a development run.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	log.Logger = logger

	if err := cli.Execute(logger, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprint(os.Stderr, render.Error(err))
		os.Exit(1)
	}
}
