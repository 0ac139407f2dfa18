package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/reconciler"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("ROUTELEDGER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("ROUTELEDGER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "routeledger",
		Description: "Maintains a versioned history of route configurations and path variants from periodic schedule feed snapshots",

		Commands: []*cli.Command{
			reconciler.RegisterCLI(),
			catalog.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
