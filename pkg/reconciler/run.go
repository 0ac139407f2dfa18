package reconciler

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/config"
	"github.com/routeledger/routeledger/pkg/history"
	"github.com/routeledger/routeledger/pkg/snapshot"
	"github.com/rs/zerolog/log"
)

// Engine applies feed snapshots to the persisted catalogs, one date at a
// time. It owns the catalogs exclusively for its lifetime; concurrent runs
// against the same processed folder are not supported.
type Engine struct {
	finder  *snapshot.Finder
	store   *catalog.Store
	tracker *history.Tracker

	current *catalog.Catalogs
}

func NewEngine(cfg config.Config) (*Engine, error) {
	store := catalog.NewStore(cfg.ProcessedFolder)

	current, err := store.Load()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", cfg.Source.Identifier).
		Str("provider", cfg.Source.Provider.Name).
		Str("raw", cfg.RawFolder).
		Str("processed", cfg.ProcessedFolder).
		Msg("Catalogs loaded")

	return &Engine{
		finder:  snapshot.NewFinder(cfg.RawFolder),
		store:   store,
		tracker: history.Load(cfg.ProcessedFolder),
		current: current,
	}, nil
}

// Catalogs returns the engine's current in-memory catalog state.
func (e *Engine) Catalogs() *catalog.Catalogs {
	return e.current
}

func (e *Engine) Tracker() *history.Tracker {
	return e.tracker
}

func (e *Engine) AvailableDates() ([]string, error) {
	return e.finder.AvailableDates()
}

// Summary is the human-facing account of one reconciliation run.
type Summary struct {
	SnapshotDate string

	Routes        int
	RouteVersions int
	ShapeVariants int
	Activations   int
	ShapePoints   int

	DuplicateCandidatesRemoved int
	NewVersions                int
	ClosedVersions             int
	NewVariants                int
	NewActivations             int

	FirstNewVersionID int
	LastNewVersionID  int
	FirstNewVariantID int
	LastNewVariantID  int
}

// Run reconciles the snapshot for one date into the catalogs. All mutations
// are staged on a deep copy; nothing is persisted, and the engine's current
// state is untouched, unless the whole run succeeds.
func (e *Engine) Run(date string) (*Summary, error) {
	if _, err := catalog.ParseGTFSDate(date); err != nil {
		return nil, fmt.Errorf("invalid snapshot date %q: %w", date, err)
	}

	if err := e.tracker.CheckOrder(date); err != nil {
		e.tracker.RecordFailure(date)
		return nil, err
	}

	log.Info().Str("date", date).Msg("Reconciling snapshot")

	feed, err := e.finder.Load(date)
	if err != nil {
		e.tracker.RecordFailure(date)
		return nil, err
	}

	staged := &catalog.Catalogs{}
	if err := copier.CopyWithOption(staged, e.current, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}

	serviceDates, firstDates := ExpandServiceDates(feed.Trips, feed.Calendars)
	regular, exceptional := DeriveActivations(feed.Trips, feed.CalendarDates, serviceDates)
	merged := MergeActivations(regular, exceptional)

	observations := ObserveLatestRoutes(feed.Trips, firstDates, feed.Routes)
	staged.Routes, _ = UpdateRoutes(staged.Routes, observations)

	versionSequence := catalog.NewSequence(staged.MaxVersionID())
	firstNewVersionID := versionSequence.Peek()
	updatedVersions, changes := UpdateRouteVersions(staged.RouteVersions, observations, versionSequence)
	staged.RouteVersions = updatedVersions

	rows := BuildVariantRows(staged.RouteVersions, merged.Rows)

	variantSequence := catalog.NewSequence(staged.MaxShapeVariantID())
	firstNewVariantID := variantSequence.Peek()
	variantUpdate := UpdateShapeVariants(staged.ShapeVariants, rows, variantSequence)
	staged.ShapeVariants = variantUpdate.Variants

	var newActivations int
	staged.Activations, newActivations = UpdateLedger(staged.Activations, variantUpdate.Facts)

	staged.ShapePoints = TopUpShapePoints(staged.ShapePoints, rows, feed.Shapes)

	if err := e.store.Persist(staged); err != nil {
		e.tracker.RecordFailure(date)
		return nil, err
	}

	e.current = staged
	e.tracker.RecordSuccess(date)

	closedVersions := 0
	for _, change := range changes {
		closedVersions += len(change.ClosedIDs)
	}

	summary := &Summary{
		SnapshotDate:               date,
		Routes:                     len(staged.Routes),
		RouteVersions:              len(staged.RouteVersions),
		ShapeVariants:              len(staged.ShapeVariants),
		Activations:                len(staged.Activations),
		ShapePoints:                len(staged.ShapePoints),
		DuplicateCandidatesRemoved: merged.DuplicatesRemoved,
		NewVersions:                len(changes),
		ClosedVersions:             closedVersions,
		NewVariants:                len(variantUpdate.NewVariants),
		NewActivations:             newActivations,
	}
	if summary.NewVersions > 0 {
		summary.FirstNewVersionID = firstNewVersionID
		summary.LastNewVersionID = versionSequence.Peek() - 1
	}
	if summary.NewVariants > 0 {
		summary.FirstNewVariantID = firstNewVariantID
		summary.LastNewVariantID = variantSequence.Peek() - 1
	}

	e.logSummary(summary)

	return summary, nil
}

func (e *Engine) logSummary(summary *Summary) {
	event := log.Info().
		Str("date", summary.SnapshotDate).
		Int("routes", summary.Routes).
		Int("route_versions", summary.RouteVersions).
		Int("shape_variants", summary.ShapeVariants).
		Int("activations", summary.Activations).
		Int("shape_points", summary.ShapePoints)

	if summary.NewVersions > 0 {
		event = event.Str("version_ids", fmt.Sprintf("%d-%d", summary.FirstNewVersionID, summary.LastNewVersionID))
	}
	if summary.NewVariants > 0 {
		event = event.Str("variant_ids", fmt.Sprintf("%d-%d", summary.FirstNewVariantID, summary.LastNewVariantID))
	}

	event.Msg("Snapshot reconciled")

	if summary.NewVariants == 0 {
		log.Info().Msg("No new variants added")
	} else {
		log.Info().Int("added", summary.NewVariants).Msg("New variants added")
	}
	if summary.NewActivations == 0 {
		log.Info().Msg("No new activations added")
	} else {
		log.Info().Int("added", summary.NewActivations).Msg("New activations added")
	}
}
