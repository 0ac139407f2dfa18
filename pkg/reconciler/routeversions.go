package reconciler

import (
	"strings"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/gtfs"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// RouteObservation is the latest observed configuration of one
// route+direction in a snapshot, joined with its route metadata.
type RouteObservation struct {
	Route       gtfs.Route
	DirectionID bool
	MainShapeID string
	Headsign    string
	ValidFrom   catalog.Date
}

// ObserveLatestRoutes picks, per route and direction, the configuration
// backed by the most trips in the snapshot. Ties go to the configuration
// with the earliest first observed date.
//
// Trips referencing a route absent from the snapshot's route table are
// dropped from consideration. That is admission control at the feed
// boundary, not a failure.
func ObserveLatestRoutes(trips []gtfs.Trip, firstDates map[string]catalog.Date, routes []gtfs.Route) []RouteObservation {
	type aggregateKey struct {
		config    configKey
		validFrom catalog.Date
	}
	type aggregate struct {
		key   aggregateKey
		trips int
	}

	counts := map[aggregateKey]*aggregate{}
	for _, trip := range trips {
		first, inService := firstDates[trip.ServiceID]
		if !inService {
			continue
		}

		key := aggregateKey{configKey{trip.RouteID, trip.ShapeID, trip.Headsign, trip.DirectionID}, first}
		if existing := counts[key]; existing != nil {
			existing.trips += 1
		} else {
			counts[key] = &aggregate{key: key, trips: 1}
		}
	}

	aggregates := maps.Values(counts)
	slices.SortFunc(aggregates, func(a, b *aggregate) int {
		if c := strings.Compare(a.key.config.RouteID, b.key.config.RouteID); c != 0 {
			return c
		}
		if a.key.config.DirectionID != b.key.config.DirectionID {
			if !a.key.config.DirectionID {
				return -1
			}
			return 1
		}
		if a.trips != b.trips {
			return b.trips - a.trips
		}
		if c := a.key.validFrom.Compare(b.key.validFrom); c != 0 {
			return c
		}
		if c := strings.Compare(a.key.config.ShapeID, b.key.config.ShapeID); c != 0 {
			return c
		}
		return strings.Compare(a.key.config.Headsign, b.key.config.Headsign)
	})

	routesByID := map[string]gtfs.Route{}
	for _, route := range routes {
		routesByID[route.ID] = route
	}

	type routeDirection struct {
		RouteID     string
		DirectionID bool
	}

	picked := map[routeDirection]bool{}
	var observations []RouteObservation

	for _, candidate := range aggregates {
		pair := routeDirection{candidate.key.config.RouteID, candidate.key.config.DirectionID}
		if picked[pair] {
			continue
		}
		picked[pair] = true

		route, known := routesByID[candidate.key.config.RouteID]
		if !known {
			log.Warn().Str("route", candidate.key.config.RouteID).Msg("Trips reference a route missing from the route table, dropping")
			continue
		}

		observations = append(observations, RouteObservation{
			Route:       route,
			DirectionID: candidate.key.config.DirectionID,
			MainShapeID: candidate.key.config.ShapeID,
			Headsign:    candidate.key.config.Headsign,
			ValidFrom:   candidate.key.validFrom,
		})
	}

	return observations
}

// UpdateRoutes appends routes never seen before to the append-only route
// catalog. Attributes of already known routes are left untouched even when
// the snapshot reports different values.
//
// The returned identifier list flags duplicate route_ids found in the
// resulting catalog. Duplicates are reported for operator review, never
// repaired.
func UpdateRoutes(existing []catalog.Route, observations []RouteObservation) ([]catalog.Route, []string) {
	updated := slices.Clone(existing)

	known := map[string]bool{}
	for _, route := range existing {
		known[route.RouteID] = true
	}

	for _, observation := range observations {
		if known[observation.Route.ID] {
			continue
		}
		known[observation.Route.ID] = true

		updated = append(updated, catalog.Route{
			RouteID:    observation.Route.ID,
			AgencyID:   observation.Route.AgencyID,
			ShortName:  observation.Route.ShortName,
			Type:       observation.Route.Type,
			Colour:     observation.Route.Colour,
			TextColour: observation.Route.TextColour,
		})
	}

	duplicates := duplicateRouteIDs(updated)
	if len(duplicates) > 0 {
		log.Warn().Strs("routes", duplicates).Msg("Duplicate route identifiers in the route catalog")
	}

	return updated, duplicates
}

func duplicateRouteIDs(routes []catalog.Route) []string {
	counts := map[string]int{}
	for _, route := range routes {
		counts[route.RouteID] += 1
	}

	var duplicates []string
	for id, count := range counts {
		if count > 1 {
			duplicates = append(duplicates, id)
		}
	}
	slices.Sort(duplicates)

	return duplicates
}

// VersionChange describes one reconciliation step: the version opened for a
// changed configuration and the previously open versions it closed.
type VersionChange struct {
	Opened    catalog.RouteVersion
	ClosedIDs []int
}

// UpdateRouteVersions maintains the append-only version history. A
// configuration already covered by an open version for the same
// route+direction is unchanged. Anything else closes the open version(s)
// for that route+direction at the day before the new valid_from and opens a
// fresh version.
func UpdateRouteVersions(versions []catalog.RouteVersion, observations []RouteObservation, sequence *catalog.Sequence) ([]catalog.RouteVersion, []VersionChange) {
	updated := slices.Clone(versions)

	type openKey struct {
		RouteID     string
		DirectionID bool
		MainShapeID string
		Headsign    string
	}

	openConfigs := map[openKey]bool{}
	for _, version := range updated {
		if version.IsOpen() {
			openConfigs[openKey{version.RouteID, version.DirectionID, version.MainShapeID, version.Headsign}] = true
		}
	}

	var changes []VersionChange
	for _, observation := range observations {
		key := openKey{observation.Route.ID, observation.DirectionID, observation.MainShapeID, observation.Headsign}
		if openConfigs[key] {
			continue
		}

		// Close the open version(s) of this route+direction. Matching on the
		// direction too keeps a change in one direction from ending the
		// other direction's version.
		closeDate := observation.ValidFrom.AddDays(-1)
		var closedIDs []int
		parentID := 0
		for index := range updated {
			version := &updated[index]
			if version.RouteID != observation.Route.ID || version.DirectionID != observation.DirectionID || !version.IsOpen() {
				continue
			}

			version.ValidTo = closeDate
			closedIDs = append(closedIDs, version.VersionID)
			if version.VersionID > parentID {
				parentID = version.VersionID
			}
		}

		opened := catalog.RouteVersion{
			VersionID:   sequence.Next(),
			RouteID:     observation.Route.ID,
			DirectionID: observation.DirectionID,
			LongName:    observation.Route.LongName,
			Description: observation.Route.Description,
			ValidFrom:   observation.ValidFrom,
			MainShapeID: observation.MainShapeID,
			Headsign:    observation.Headsign,
		}
		if parentID != 0 {
			parent := parentID
			opened.ParentVersionID = &parent
		}

		updated = append(updated, opened)
		openConfigs[key] = true
		changes = append(changes, VersionChange{Opened: opened, ClosedIDs: closedIDs})

		log.Info().
			Str("route", opened.RouteID).
			Bool("direction", opened.DirectionID).
			Int("version", opened.VersionID).
			Int("closed", len(closedIDs)).
			Str("valid_from", opened.ValidFrom.String()).
			Msg("Opened new route version")
	}

	return updated, changes
}
