package catalog

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/routeledger/routeledger/pkg/config"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the persisted route history catalogs",
		Subcommands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show row counts and identifier high-water marks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path of the config file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					catalogs, err := NewStore(cfg.ProcessedFolder).Load()
					if err != nil {
						return err
					}

					fmt.Printf("%# v\n", pretty.Formatter(catalogs.Stats()))

					return nil
				},
			},
		},
	}
}
