package catalog

// Route is the append-only route catalog row. Attributes are captured on
// first observation of a route_id and never updated afterwards, even when
// later snapshots report different values for the same id.
type Route struct {
	RouteID    string `csv:"route_id"`
	AgencyID   string `csv:"agency_id"`
	ShortName  string `csv:"route_short_name"`
	Type       int    `csv:"route_type"`
	Colour     string `csv:"route_color"`
	TextColour string `csv:"route_text_color"`
}

// RouteVersion is one configuration of a route+direction, valid over an
// inclusive date interval. A zero ValidTo means the version is currently
// open; at most one version per route+direction may be open.
type RouteVersion struct {
	VersionID       int    `csv:"version_id"`
	RouteID         string `csv:"route_id"`
	DirectionID     bool   `csv:"direction_id"`
	LongName        string `csv:"route_long_name"`
	Description     string `csv:"route_desc"`
	ValidFrom       Date   `csv:"valid_from"`
	ValidTo         Date   `csv:"valid_to"`
	MainShapeID     string `csv:"main_shape_id"`
	Headsign        string `csv:"trip_headsign"`
	ParentVersionID *int   `csv:"parent_version_id,omitempty"`
	Note            string `csv:"note"`
}

func (v *RouteVersion) IsOpen() bool {
	return v.ValidTo.IsZero()
}

// ShapeVariant maps a distinct (version, path, headsign, main-flag)
// combination to a stable identifier. Rows are created once and never
// renumbered or mutated.
type ShapeVariant struct {
	ShapeVariantID int    `csv:"shape_variant_id"`
	VersionID      int    `csv:"version_id"`
	ShapeID        string `csv:"shape_id"`
	Headsign       string `csv:"trip_headsign"`
	IsMain         bool   `csv:"is_main"`
	Note           string `csv:"note"`
}

// ShapeVariantActivation records that a shape variant ran, or was explicitly
// overridden, on a calendar date. The ledger is append-only and unique over
// the full (date, variant, exception) tuple.
type ShapeVariantActivation struct {
	Date           Date          `csv:"date"`
	ShapeVariantID int           `csv:"shape_variant_id"`
	ExceptionType  ExceptionType `csv:"exception_type"`
}

// ShapePoint is one point of a path geometry kept in the shapes catalog so
// historical variants stay resolvable after the feed stops publishing them.
type ShapePoint struct {
	ShapeID          string  `csv:"shape_id"`
	PointLatitude    float64 `csv:"shape_pt_lat"`
	PointLongitude   float64 `csv:"shape_pt_lon"`
	PointSequence    int     `csv:"shape_pt_sequence"`
	DistanceTraveled float64 `csv:"shape_dist_traveled"`
}

// Catalogs is the full persisted state the reconciliation engine maintains.
type Catalogs struct {
	Routes        []Route
	RouteVersions []RouteVersion
	ShapeVariants []ShapeVariant
	Activations   []ShapeVariantActivation
	ShapePoints   []ShapePoint
}

func (c *Catalogs) MaxVersionID() int {
	max := 0
	for _, version := range c.RouteVersions {
		if version.VersionID > max {
			max = version.VersionID
		}
	}

	return max
}

func (c *Catalogs) MaxShapeVariantID() int {
	max := 0
	for _, variant := range c.ShapeVariants {
		if variant.ShapeVariantID > max {
			max = variant.ShapeVariantID
		}
	}

	return max
}

func (c *Catalogs) OpenVersions() []RouteVersion {
	var open []RouteVersion
	for _, version := range c.RouteVersions {
		if version.IsOpen() {
			open = append(open, version)
		}
	}

	return open
}

type Stats struct {
	Routes            int
	RouteVersions     int
	OpenVersions      int
	ShapeVariants     int
	Activations       int
	ShapePoints       int
	MaxVersionID      int
	MaxShapeVariantID int
}

func (c *Catalogs) Stats() Stats {
	return Stats{
		Routes:            len(c.Routes),
		RouteVersions:     len(c.RouteVersions),
		OpenVersions:      len(c.OpenVersions()),
		ShapeVariants:     len(c.ShapeVariants),
		Activations:       len(c.Activations),
		ShapePoints:       len(c.ShapePoints),
		MaxVersionID:      c.MaxVersionID(),
		MaxShapeVariantID: c.MaxShapeVariantID(),
	}
}
