// Package layout holds the fixed catalog of structural page layouts and the
// registry that selects one per seed.
package layout

// Placement is where a movable region sits relative to the main content.
type Placement string

const (
	PlacementLeft     Placement = "left"
	PlacementRight    Placement = "right"
	PlacementTop      Placement = "top"
	PlacementBottom   Placement = "bottom"
	PlacementFloating Placement = "floating"
)

// Placements is the rotation used when specializing adjustable layouts.
var Placements = []Placement{
	PlacementLeft,
	PlacementRight,
	PlacementTop,
	PlacementBottom,
	PlacementFloating,
}

// Position is the positioning scheme a region renders with.
type Position string

const (
	PositionStatic Position = "static"
	PositionSticky Position = "sticky"
	PositionFixed  Position = "fixed"
)

// Region names shared by every catalog entry.
const (
	RegionHeader  = "header"
	RegionSearch  = "search"
	RegionSidebar = "sidebar"
	RegionContent = "content"
	RegionFooter  = "footer"
)

// Region describes one structural page region.
type Region struct {
	Name      string
	Order     int
	Position  Position
	Placement Placement
	Class     string
	// Offset is the side of the content area that yields room to the
	// sidebar. Only set on the content region.
	Offset Placement
}

// Variant is one structural layout descriptor.
type Variant struct {
	ID    string
	Index int
	Name  string
	// Direction is the flex direction of the body row holding sidebar and content.
	Direction string
	Regions   []Region
	// Adjustable entries have their sidebar placement rotated per seed.
	Adjustable bool
}

// Region returns the named region.
func (v Variant) Region(name string) (Region, bool) {
	for _, region := range v.Regions {
		if region.Name == name {
			return region, true
		}
	}
	return Region{}, false
}

// RegionNames returns region names in render order.
func (v Variant) RegionNames() []string {
	names := make([]string, 0, len(v.Regions))
	for _, region := range v.Regions {
		names = append(names, region.Name)
	}
	return names
}

// Sidebar returns the current sidebar placement.
func (v Variant) Sidebar() Placement {
	region, _ := v.Region(RegionSidebar)
	return region.Placement
}

func (v Variant) clone() Variant {
	out := v
	out.Regions = append([]Region(nil), v.Regions...)
	return out
}
