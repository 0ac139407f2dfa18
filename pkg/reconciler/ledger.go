package reconciler

import (
	"github.com/routeledger/routeledger/pkg/catalog"
	"golang.org/x/exp/slices"
)

type ledgerKey struct {
	Date           catalog.Date
	ShapeVariantID int
	Exception      catalog.ExceptionType
}

// UpdateLedger appends only activation facts not already present in the
// persisted ledger, keyed by the full (date, variant, exception) tuple, and
// re-sorts the ledger for deterministic storage order. Existing rows are
// never updated or removed.
func UpdateLedger(ledger []catalog.ShapeVariantActivation, facts []catalog.ShapeVariantActivation) ([]catalog.ShapeVariantActivation, int) {
	updated := slices.Clone(ledger)

	known := map[ledgerKey]bool{}
	for _, fact := range ledger {
		known[ledgerKey{fact.Date, fact.ShapeVariantID, fact.ExceptionType}] = true
	}

	added := 0
	for _, fact := range facts {
		key := ledgerKey{fact.Date, fact.ShapeVariantID, fact.ExceptionType}
		if known[key] {
			continue
		}
		known[key] = true

		updated = append(updated, fact)
		added += 1
	}

	slices.SortStableFunc(updated, func(a, b catalog.ShapeVariantActivation) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.ShapeVariantID - b.ShapeVariantID
	})

	return updated, added
}
