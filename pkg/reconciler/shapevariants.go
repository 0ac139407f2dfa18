package reconciler

import (
	"github.com/routeledger/routeledger/pkg/catalog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// VariantRow is a merged activation candidate joined with the open route
// version that owns it.
type VariantRow struct {
	VersionID int
	Candidate Candidate
	IsMain    bool
}

// BuildVariantRows joins the merged candidates against the currently open
// route versions on route+direction. Candidates with no open version are
// dropped, matching the inner-join semantics of the route boundary. IsMain
// marks candidates riding the owning version's main path.
func BuildVariantRows(versions []catalog.RouteVersion, merged []Candidate) []VariantRow {
	type routeDirection struct {
		RouteID     string
		DirectionID bool
	}
	type openVersion struct {
		VersionID   int
		MainShapeID string
	}

	open := map[routeDirection]openVersion{}
	for _, version := range versions {
		if version.IsOpen() {
			open[routeDirection{version.RouteID, version.DirectionID}] = openVersion{version.VersionID, version.MainShapeID}
		}
	}

	var rows []VariantRow
	for _, candidate := range merged {
		version, exists := open[routeDirection{candidate.RouteID, candidate.DirectionID}]
		if !exists {
			continue
		}

		rows = append(rows, VariantRow{
			VersionID: version.VersionID,
			Candidate: candidate,
			IsMain:    candidate.ShapeID == version.MainShapeID,
		})
	}

	return rows
}

type variantKey struct {
	VersionID int
	ShapeID   string
	Headsign  string
	IsMain    bool
}

type VariantUpdate struct {
	Variants    []catalog.ShapeVariant
	NewVariants []catalog.ShapeVariant

	// Facts are all input rows resolved to their shape_variant_id, ready
	// for the activation ledger.
	Facts []catalog.ShapeVariantActivation
}

// UpdateShapeVariants assigns stable identifiers to variant combinations
// never catalogued before and resolves every row to its identifier. Running
// it twice over identical rows adds nothing the second time.
func UpdateShapeVariants(existing []catalog.ShapeVariant, rows []VariantRow, sequence *catalog.Sequence) VariantUpdate {
	variants := slices.Clone(existing)

	ids := map[variantKey]int{}
	for _, variant := range existing {
		ids[variantKey{variant.VersionID, variant.ShapeID, variant.Headsign, variant.IsMain}] = variant.ShapeVariantID
	}

	var added []catalog.ShapeVariant
	for _, row := range rows {
		key := variantKey{row.VersionID, row.Candidate.ShapeID, row.Candidate.Headsign, row.IsMain}
		if _, exists := ids[key]; exists {
			continue
		}

		variant := catalog.ShapeVariant{
			ShapeVariantID: sequence.Next(),
			VersionID:      row.VersionID,
			ShapeID:        row.Candidate.ShapeID,
			Headsign:       row.Candidate.Headsign,
			IsMain:         row.IsMain,
		}
		ids[key] = variant.ShapeVariantID
		variants = append(variants, variant)
		added = append(added, variant)
	}

	if len(added) > 0 {
		log.Info().
			Int("variants", len(added)).
			Int("first", added[0].ShapeVariantID).
			Int("last", added[len(added)-1].ShapeVariantID).
			Msg("Catalogued new shape variants")
	}

	facts := make([]catalog.ShapeVariantActivation, 0, len(rows))
	for _, row := range rows {
		key := variantKey{row.VersionID, row.Candidate.ShapeID, row.Candidate.Headsign, row.IsMain}
		facts = append(facts, catalog.ShapeVariantActivation{
			Date:           row.Candidate.Date,
			ShapeVariantID: ids[key],
			ExceptionType:  row.Candidate.Exception,
		})
	}

	return VariantUpdate{Variants: variants, NewVariants: added, Facts: facts}
}
