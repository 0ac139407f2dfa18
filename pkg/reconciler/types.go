package reconciler

import (
	"github.com/routeledger/routeledger/pkg/catalog"
)

// ActivationKey identifies one logical activation irrespective of where it
// was derived from. Two candidates with the same key describe the same
// service day and only one of them may survive the merge.
type ActivationKey struct {
	Date        catalog.Date
	RouteID     string
	ShapeID     string
	Headsign    string
	DirectionID bool
}

// Candidate is one derived activation row before it has been resolved to a
// shape variant. Exception is the zero ExceptionType for rows derived from
// the weekly pattern and a feed exception code for explicit overrides.
type Candidate struct {
	Date        catalog.Date
	RouteID     string
	ShapeID     string
	Headsign    string
	DirectionID bool
	Exception   catalog.ExceptionType
}

func (c Candidate) Key() ActivationKey {
	return ActivationKey{
		Date:        c.Date,
		RouteID:     c.RouteID,
		ShapeID:     c.ShapeID,
		Headsign:    c.Headsign,
		DirectionID: c.DirectionID,
	}
}

// configKey is the distinct trip configuration the derivers and the route
// version reconciler group by.
type configKey struct {
	RouteID     string
	ShapeID     string
	Headsign    string
	DirectionID bool
}
