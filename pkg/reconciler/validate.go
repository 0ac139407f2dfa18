package reconciler

import (
	"fmt"
	"strings"

	"github.com/routeledger/routeledger/pkg/catalog"
	"golang.org/x/exp/slices"
)

// Issue is one catalog consistency violation found by validation.
type Issue struct {
	Kind    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// ValidateRouteVersions checks the version history for inverted date
// ranges, overlapping validity intervals, and route+direction pairs with
// more than one open version.
func ValidateRouteVersions(versions []catalog.RouteVersion) []Issue {
	var issues []Issue

	for _, version := range versions {
		if !version.ValidTo.IsZero() && version.ValidTo.Before(version.ValidFrom) {
			issues = append(issues, Issue{
				Kind:    "invalid-date-range",
				Message: fmt.Sprintf("version %d (%s dir %t) runs %s to %s", version.VersionID, version.RouteID, version.DirectionID, version.ValidFrom, version.ValidTo),
			})
		}
	}

	type routeDirection struct {
		RouteID     string
		DirectionID bool
	}

	groups := map[routeDirection][]catalog.RouteVersion{}
	for _, version := range versions {
		pair := routeDirection{version.RouteID, version.DirectionID}
		groups[pair] = append(groups[pair], version)
	}

	pairs := make([]routeDirection, 0, len(groups))
	for pair := range groups {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b routeDirection) int {
		if c := strings.Compare(a.RouteID, b.RouteID); c != 0 {
			return c
		}
		if a.DirectionID == b.DirectionID {
			return 0
		}
		if !a.DirectionID {
			return -1
		}
		return 1
	})

	for _, pair := range pairs {
		group := groups[pair]
		slices.SortStableFunc(group, func(a, b catalog.RouteVersion) int {
			return a.ValidFrom.Compare(b.ValidFrom)
		})

		openCount := 0
		for _, version := range group {
			if version.IsOpen() {
				openCount += 1
			}
		}
		if openCount > 1 {
			issues = append(issues, Issue{
				Kind:    "duplicate-open-versions",
				Message: fmt.Sprintf("route %s dir %t has %d open versions", pair.RouteID, pair.DirectionID, openCount),
			})
		}

		for index := 0; index < len(group)-1; index += 1 {
			current := group[index]
			next := group[index+1]

			if current.IsOpen() || !current.ValidTo.Before(next.ValidFrom) {
				issues = append(issues, Issue{
					Kind: "overlapping-versions",
					Message: fmt.Sprintf("route %s dir %t: version %d (%s to %s) overlaps version %d (from %s)",
						pair.RouteID, pair.DirectionID, current.VersionID, current.ValidFrom, current.ValidTo, next.VersionID, next.ValidFrom),
				})
			}
		}
	}

	return issues
}

// ValidateLedger checks the activation ledger for duplicate
// (date, variant, exception) tuples.
func ValidateLedger(activations []catalog.ShapeVariantActivation) []Issue {
	counts := map[ledgerKey]int{}
	for _, activation := range activations {
		counts[ledgerKey{activation.Date, activation.ShapeVariantID, activation.ExceptionType}] += 1
	}

	var issues []Issue
	for key, count := range counts {
		if count > 1 {
			issues = append(issues, Issue{
				Kind:    "duplicate-activation",
				Message: fmt.Sprintf("%s variant %d exception %d appears %d times", key.Date, key.ShapeVariantID, key.Exception, count),
			})
		}
	}
	slices.SortFunc(issues, func(a, b Issue) int {
		return strings.Compare(a.Message, b.Message)
	})

	return issues
}
