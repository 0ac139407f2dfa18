package reconciler

import (
	"strings"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/gtfs"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TopUpShapePoints copies the geometry of any shape referenced by variant
// rows but missing from the persisted shapes catalog out of the snapshot's
// shape table. Geometries already present are never replaced, so historical
// variants keep resolving even after the feed stops publishing their paths.
func TopUpShapePoints(existing []catalog.ShapePoint, rows []VariantRow, source []gtfs.Shape) []catalog.ShapePoint {
	referenced := map[string]bool{}
	for _, row := range rows {
		referenced[row.Candidate.ShapeID] = true
	}

	present := map[string]bool{}
	for _, point := range existing {
		present[point.ShapeID] = true
	}

	missing := map[string]bool{}
	for id := range referenced {
		if !present[id] {
			missing[id] = true
		}
	}
	if len(missing) == 0 {
		return existing
	}

	updated := slices.Clone(existing)
	found := map[string]bool{}
	for _, point := range source {
		if !missing[point.ID] {
			continue
		}
		found[point.ID] = true

		updated = append(updated, catalog.ShapePoint{
			ShapeID:          point.ID,
			PointLatitude:    point.PointLatitude,
			PointLongitude:   point.PointLongitude,
			PointSequence:    point.PointSequence,
			DistanceTraveled: point.DistanceTraveled,
		})
	}

	missingIDs := maps.Keys(missing)
	slices.Sort(missingIDs)
	for _, id := range missingIDs {
		if !found[id] {
			log.Warn().Str("shape", id).Msg("Shape referenced by variants is missing from the snapshot")
		}
	}

	log.Info().Int("shapes", len(found)).Msg("Added missing shape geometries")

	slices.SortStableFunc(updated, func(a, b catalog.ShapePoint) int {
		if c := strings.Compare(a.ShapeID, b.ShapeID); c != 0 {
			return c
		}
		return a.PointSequence - b.PointSequence
	})

	return updated
}
