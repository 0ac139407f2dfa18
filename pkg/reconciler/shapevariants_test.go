package reconciler

import (
	"testing"
	"time"

	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVariantRowsJoinsOnOpenVersions(t *testing.T) {
	versions := []catalog.RouteVersion{
		{VersionID: 100000, RouteID: "R1", MainShapeID: "SH1", ValidFrom: catalog.NewDate(2024, time.January, 1)},
		{VersionID: 100001, RouteID: "R1", DirectionID: true, MainShapeID: "SH2", ValidFrom: catalog.NewDate(2024, time.January, 1)},
	}
	merged := []Candidate{
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH1", Headsign: "Downtown"},
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH3", Headsign: "Downtown Short"},
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH2", Headsign: "Uptown", DirectionID: true},
	}

	rows := BuildVariantRows(versions, merged)

	require.Len(t, rows, 3)
	assert.Equal(t, 100000, rows[0].VersionID)
	assert.True(t, rows[0].IsMain)
	assert.False(t, rows[1].IsMain, "non-main path of the same version")
	assert.Equal(t, 100001, rows[2].VersionID)
	assert.True(t, rows[2].IsMain)
}

func TestBuildVariantRowsDropsCandidatesWithoutOpenVersion(t *testing.T) {
	versions := []catalog.RouteVersion{
		{VersionID: 100000, RouteID: "R1", MainShapeID: "SH1", ValidFrom: catalog.NewDate(2024, time.January, 1), ValidTo: catalog.NewDate(2024, time.January, 7)},
	}
	merged := []Candidate{
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH1"},
		{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R9", ShapeID: "SH9"},
	}

	assert.Empty(t, BuildVariantRows(versions, merged))
}

func TestUpdateShapeVariantsAssignsStableIdentifiers(t *testing.T) {
	rows := []VariantRow{
		{VersionID: 100000, Candidate: Candidate{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH1", Headsign: "Downtown"}, IsMain: true},
		{VersionID: 100000, Candidate: Candidate{Date: catalog.NewDate(2024, time.January, 2), RouteID: "R1", ShapeID: "SH1", Headsign: "Downtown"}, IsMain: true},
		{VersionID: 100000, Candidate: Candidate{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH3", Headsign: "Downtown Short"}},
	}

	sequence := catalog.NewSequence(0)
	update := UpdateShapeVariants(nil, rows, sequence)

	require.Len(t, update.NewVariants, 2)
	assert.Equal(t, catalog.BaselineID, update.NewVariants[0].ShapeVariantID)
	assert.Equal(t, catalog.BaselineID+1, update.NewVariants[1].ShapeVariantID)

	require.Len(t, update.Facts, 3)
	assert.Equal(t, update.Facts[0].ShapeVariantID, update.Facts[1].ShapeVariantID, "same combination resolves to the same id")
	assert.NotEqual(t, update.Facts[0].ShapeVariantID, update.Facts[2].ShapeVariantID)
}

func TestUpdateShapeVariantsIsIdempotent(t *testing.T) {
	rows := []VariantRow{
		{VersionID: 100000, Candidate: Candidate{Date: catalog.NewDate(2024, time.January, 1), RouteID: "R1", ShapeID: "SH1", Headsign: "Downtown"}, IsMain: true},
	}

	first := UpdateShapeVariants(nil, rows, catalog.NewSequence(0))
	second := UpdateShapeVariants(first.Variants, rows, catalog.NewSequence(catalog.BaselineID))

	assert.Empty(t, second.NewVariants)
	assert.Equal(t, first.Variants, second.Variants)
	require.Len(t, second.Facts, 1)
	assert.Equal(t, catalog.BaselineID, second.Facts[0].ShapeVariantID)
}

func TestUpdateShapeVariantsDistinguishesMainFlag(t *testing.T) {
	existing := []catalog.ShapeVariant{
		{ShapeVariantID: 100000, VersionID: 100000, ShapeID: "SH1", Headsign: "Downtown", IsMain: true},
	}
	rows := []VariantRow{
		{VersionID: 100000, Candidate: Candidate{Date: catalog.NewDate(2024, time.January, 1), ShapeID: "SH1", Headsign: "Downtown"}},
	}

	update := UpdateShapeVariants(existing, rows, catalog.NewSequence(100000))

	require.Len(t, update.NewVariants, 1)
	assert.Equal(t, 100001, update.NewVariants[0].ShapeVariantID)
	assert.False(t, update.NewVariants[0].IsMain)
}
