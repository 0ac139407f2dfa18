package reconciler

import (
	"errors"
	"fmt"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

func RegisterCLI() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "Path of the config file",
	}

	return &cli.Command{
		Name:  "reconcile",
		Usage: "Reconcile feed snapshots into the route history catalogs",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Process one snapshot date or a date range",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "date",
						Usage: "Snapshot date (YYYYMMDD)",
					},
					&cli.StringFlag{
						Name:  "start",
						Usage: "First snapshot date of a range (YYYYMMDD)",
					},
					&cli.StringFlag{
						Name:  "end",
						Usage: "Last snapshot date of a range (YYYYMMDD)",
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Number of days to process starting at --start",
					},
				},
				Action: runAction,
			},
			{
				Name:   "validate",
				Usage:  "Check the persisted catalogs for invariant violations",
				Flags:  []cli.Flag{configFlag},
				Action: validateAction,
			},
			{
				Name:   "pending",
				Usage:  "List available snapshot dates not yet applied",
				Flags:  []cli.Flag{configFlag},
				Action: pendingAction,
			},
		},
	}
}

func runAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	dates, err := ExpandDateArguments(c.String("date"), c.String("start"), c.String("end"), c.Int("days"))
	if err != nil {
		return err
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	failed := 0
	for _, date := range dates {
		if _, err := engine.Run(date); err != nil {
			log.Error().Err(err).Str("date", date).Msg("Snapshot reconciliation failed")
			failed += 1
		}
	}

	log.Info().
		Int("processed", len(dates)-failed).
		Int("failed", failed).
		Msg("Batch finished")

	if failed == len(dates) {
		return errors.New("every snapshot date failed")
	}

	return nil
}

func validateAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	catalogs, err := catalog.NewStore(cfg.ProcessedFolder).Load()
	if err != nil {
		return err
	}

	issues := ValidateRouteVersions(catalogs.RouteVersions)
	issues = append(issues, ValidateLedger(catalogs.Activations)...)

	for _, issue := range issues {
		log.Warn().Str("kind", issue.Kind).Msg(issue.Message)
	}

	if len(issues) > 0 {
		return fmt.Errorf("found %d catalog invariant violations", len(issues))
	}

	log.Info().Msg("Catalogs are consistent")
	return nil
}

func pendingAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	available, err := engine.AvailableDates()
	if err != nil {
		return err
	}

	var pending []string
	for _, date := range available {
		if !engine.Tracker().Processed(date) {
			pending = append(pending, date)
		}
	}
	slices.Sort(pending)

	log.Info().
		Int("available", len(available)).
		Strs("pending", pending).
		Str("last_applied", engine.Tracker().LastApplied()).
		Msg("Snapshot backlog")

	return nil
}
