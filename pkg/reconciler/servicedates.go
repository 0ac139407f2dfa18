package reconciler

import (
	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/gtfs"
	"github.com/rs/zerolog/log"
)

// ServiceDates maps a service id to the ordered set of dates its weekly
// pattern covers.
type ServiceDates map[string][]catalog.Date

// ExpandServiceDates turns each service's weekly pattern into the concrete
// dates it runs on, for every service referenced by the trip table. The
// second return value maps each service to its first observed date, which
// seeds valid_from for new route versions.
//
// A service with no calendar entry or no active weekdays expands to an empty
// sequence. That is a data-quality condition, not an error.
func ExpandServiceDates(trips []gtfs.Trip, calendars []gtfs.Calendar) (ServiceDates, map[string]catalog.Date) {
	calendarByService := map[string]*gtfs.Calendar{}
	for index := range calendars {
		calendarByService[calendars[index].ServiceID] = &calendars[index]
	}

	dates := ServiceDates{}
	firstDates := map[string]catalog.Date{}

	for _, trip := range trips {
		if _, seen := dates[trip.ServiceID]; seen {
			continue
		}

		active := expandCalendar(calendarByService[trip.ServiceID], trip.ServiceID)
		dates[trip.ServiceID] = active
		if len(active) > 0 {
			firstDates[trip.ServiceID] = active[0]
		}
	}

	return dates, firstDates
}

func expandCalendar(calendar *gtfs.Calendar, serviceID string) []catalog.Date {
	if calendar == nil {
		log.Warn().Str("service", serviceID).Msg("Service has no calendar entry")
		return nil
	}

	if !calendar.HasActiveDays() {
		log.Warn().Str("service", serviceID).Msg("Service has no active weekdays")
		return nil
	}

	start, err := catalog.ParseGTFSDate(calendar.Start)
	if err != nil {
		log.Warn().Err(err).Str("service", serviceID).Msg("Invalid calendar start date")
		return nil
	}
	end, err := catalog.ParseGTFSDate(calendar.End)
	if err != nil {
		log.Warn().Err(err).Str("service", serviceID).Msg("Invalid calendar end date")
		return nil
	}

	var active []catalog.Date
	for date := start; !date.After(end); date = date.AddDays(1) {
		if calendar.RunsOn(date.Weekday()) {
			active = append(active, date)
		}
	}

	return active
}
