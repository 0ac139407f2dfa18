package reconciler

import (
	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/gtfs"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// DeriveActivations runs the regular and exception derivers. The two share
// no mutable state, so they run concurrently.
func DeriveActivations(trips []gtfs.Trip, calendarDates []gtfs.CalendarDate, dates ServiceDates) ([]Candidate, []Candidate) {
	var regular, exceptional []Candidate

	p := pool.New()
	p.Go(func() {
		regular = DeriveRegular(trips, dates)
	})
	p.Go(func() {
		exceptional = DeriveExceptions(trips, calendarDates)
	})
	p.Wait()

	return regular, exceptional
}

// DeriveRegular crosses every in-service trip configuration with the dates
// its service runs on. When a configuration appears under multiple services
// the first one seen in the trip table wins.
func DeriveRegular(trips []gtfs.Trip, dates ServiceDates) []Candidate {
	serviceByConfig := map[configKey]string{}
	var order []configKey

	for _, trip := range trips {
		if len(dates[trip.ServiceID]) == 0 {
			continue
		}

		key := configKey{trip.RouteID, trip.ShapeID, trip.Headsign, trip.DirectionID}
		if _, exists := serviceByConfig[key]; exists {
			continue
		}
		serviceByConfig[key] = trip.ServiceID
		order = append(order, key)
	}

	var candidates []Candidate
	for _, key := range order {
		for _, date := range dates[serviceByConfig[key]] {
			candidates = append(candidates, Candidate{
				Date:        date,
				RouteID:     key.RouteID,
				ShapeID:     key.ShapeID,
				Headsign:    key.Headsign,
				DirectionID: key.DirectionID,
			})
		}
	}

	return candidates
}

// DeriveExceptions joins the explicit calendar overrides against the trip
// table, emitting one candidate per distinct (configuration, date) with the
// first matching exception code.
func DeriveExceptions(trips []gtfs.Trip, calendarDates []gtfs.CalendarDate) []Candidate {
	overridesByService := map[string][]gtfs.CalendarDate{}
	for _, calendarDate := range calendarDates {
		overridesByService[calendarDate.ServiceID] = append(overridesByService[calendarDate.ServiceID], calendarDate)
	}

	type exceptionKey struct {
		config configKey
		date   catalog.Date
	}

	seen := map[exceptionKey]bool{}
	var candidates []Candidate

	for _, trip := range trips {
		for _, override := range overridesByService[trip.ServiceID] {
			date, err := catalog.ParseGTFSDate(override.Date)
			if err != nil {
				log.Warn().Err(err).Str("service", override.ServiceID).Msg("Invalid calendar exception date")
				continue
			}

			key := exceptionKey{configKey{trip.RouteID, trip.ShapeID, trip.Headsign, trip.DirectionID}, date}
			if seen[key] {
				continue
			}
			seen[key] = true

			candidates = append(candidates, Candidate{
				Date:        date,
				RouteID:     trip.RouteID,
				ShapeID:     trip.ShapeID,
				Headsign:    trip.Headsign,
				DirectionID: trip.DirectionID,
				Exception:   catalog.ExceptionType(override.ExceptionType),
			})
		}
	}

	return candidates
}
