package reconciler

import (
	"testing"
	"time"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeActivationsExceptionBeatsRegular(t *testing.T) {
	date := catalog.NewDate(2024, time.January, 2)
	regular := []Candidate{
		{Date: date, RouteID: "R1", ShapeID: "SH1", Headsign: "Downtown"},
	}
	exceptional := []Candidate{
		{Date: date, RouteID: "R1", ShapeID: "SH1", Headsign: "Downtown", Exception: catalog.ExceptionRemoved},
	}

	result := MergeActivations(regular, exceptional)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, catalog.ExceptionRemoved, result.Rows[0].Exception)
	assert.Equal(t, 1, result.DuplicatesRemoved)
}

func TestMergeActivationsKeepsDistinctKeys(t *testing.T) {
	regular := []Candidate{
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH1"},
		{Date: catalog.NewDate(2024, time.January, 2), RouteID: "R1", ShapeID: "SH1"},
	}
	exceptional := []Candidate{
		{Date: catalog.NewDate(2024, time.January, 6), RouteID: "R1", ShapeID: "SH1", Exception: catalog.ExceptionAdded},
	}

	result := MergeActivations(regular, exceptional)

	assert.Len(t, result.Rows, 3)
	assert.Zero(t, result.DuplicatesRemoved)
}

func TestMergeActivationsSortsRows(t *testing.T) {
	rows := []Candidate{
		{Date: catalog.NewDate(2024, time.January, 2), RouteID: "R2", ShapeID: "SH3"},
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH2", DirectionID: true},
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH1"},
	}

	result := MergeActivations(rows, nil)

	require.Len(t, result.Rows, 3)
	assert.Equal(t, "SH1", result.Rows[0].ShapeID)
	assert.Equal(t, "SH2", result.Rows[1].ShapeID)
	assert.Equal(t, "SH3", result.Rows[2].ShapeID)
}

func TestMergeActivationsDuplicateRegularRows(t *testing.T) {
	date := catalog.NewDate(2024, time.January, 1)
	regular := []Candidate{
		{Date: date, RouteID: "R1", ShapeID: "SH1"},
		{Date: date, RouteID: "R1", ShapeID: "SH1"},
	}

	result := MergeActivations(regular, nil)

	assert.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.DuplicatesRemoved)
}

func TestMergeActivationsEmptyInputs(t *testing.T) {
	result := MergeActivations(nil, nil)

	assert.Empty(t, result.Rows)
	assert.Zero(t, result.DuplicatesRemoved)
}
