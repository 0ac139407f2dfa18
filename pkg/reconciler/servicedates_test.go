package reconciler

import (
	"testing"
	"time"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/routeledger/routeledger/pkg/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandServiceDatesWeekdayPattern(t *testing.T) {
	trips := []gtfs.Trip{
		{RouteID: "R1", ServiceID: "S1", ID: "T1"},
	}
	calendars := []gtfs.Calendar{
		// Mon-Fri over two weeks starting Monday 2024-01-01
		{ServiceID: "S1", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1, Start: "20240101", End: "20240114"},
	}

	dates, firstDates := ExpandServiceDates(trips, calendars)

	require.Len(t, dates["S1"], 10)
	assert.Equal(t, catalog.NewDate(2024, time.January, 1), dates["S1"][0])
	assert.Equal(t, catalog.NewDate(2024, time.January, 12), dates["S1"][9])
	assert.Equal(t, catalog.NewDate(2024, time.January, 1), firstDates["S1"])

	for _, date := range dates["S1"] {
		assert.NotEqual(t, time.Saturday, date.Weekday())
		assert.NotEqual(t, time.Sunday, date.Weekday())
	}
}

func TestExpandServiceDatesWeekendPattern(t *testing.T) {
	trips := []gtfs.Trip{{ServiceID: "S2"}}
	calendars := []gtfs.Calendar{
		{ServiceID: "S2", Saturday: 1, Sunday: 1, Start: "20240101", End: "20240107"},
	}

	dates, firstDates := ExpandServiceDates(trips, calendars)

	require.Len(t, dates["S2"], 2)
	assert.Equal(t, catalog.NewDate(2024, time.January, 6), dates["S2"][0])
	assert.Equal(t, catalog.NewDate(2024, time.January, 7), dates["S2"][1])
	assert.Equal(t, catalog.NewDate(2024, time.January, 6), firstDates["S2"])
}

func TestExpandServiceDatesUnknownService(t *testing.T) {
	trips := []gtfs.Trip{{ServiceID: "ghost"}}

	dates, firstDates := ExpandServiceDates(trips, nil)

	assert.Empty(t, dates["ghost"])
	assert.NotContains(t, firstDates, "ghost")
}

func TestExpandServiceDatesNoActiveDays(t *testing.T) {
	trips := []gtfs.Trip{{ServiceID: "S3"}}
	calendars := []gtfs.Calendar{
		{ServiceID: "S3", Start: "20240101", End: "20240131"},
	}

	dates, firstDates := ExpandServiceDates(trips, calendars)

	assert.Empty(t, dates["S3"])
	assert.Empty(t, firstDates)
}

func TestExpandServiceDatesSingleDayRange(t *testing.T) {
	trips := []gtfs.Trip{{ServiceID: "S4"}}
	calendars := []gtfs.Calendar{
		{ServiceID: "S4", Monday: 1, Start: "20240101", End: "20240101"},
	}

	dates, _ := ExpandServiceDates(trips, calendars)

	assert.Equal(t, []catalog.Date{catalog.NewDate(2024, time.January, 1)}, dates["S4"])
}
