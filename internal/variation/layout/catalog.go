package layout

import (
	"fmt"
	"sort"
)

// CatalogSize is the fixed number of layout entries.
const CatalogSize = 10

type archetype struct {
	name           string
	sidebar        Placement
	headerPosition Position
	searchInHeader bool
	adjustable     bool
}

// Entry 1 is the canonical layout served when variation is disabled.
var archetypes = [CatalogSize]archetype{
	{name: "classic", sidebar: PlacementLeft, headerPosition: PositionStatic, searchInHeader: true},
	{name: "classic-sticky", sidebar: PlacementLeft, headerPosition: PositionSticky, searchInHeader: true, adjustable: true},
	{name: "mirrored", sidebar: PlacementRight, headerPosition: PositionStatic, searchInHeader: true},
	{name: "mirrored-search", sidebar: PlacementRight, headerPosition: PositionSticky},
	{name: "stacked", sidebar: PlacementTop, headerPosition: PositionStatic, adjustable: true},
	{name: "stacked-sticky", sidebar: PlacementTop, headerPosition: PositionSticky, searchInHeader: true},
	{name: "footer-rail", sidebar: PlacementBottom, headerPosition: PositionStatic, adjustable: true},
	{name: "footer-rail-search", sidebar: PlacementBottom, headerPosition: PositionSticky},
	{name: "floating", sidebar: PlacementFloating, headerPosition: PositionSticky, searchInHeader: true, adjustable: true},
	{name: "floating-search", sidebar: PlacementFloating, headerPosition: PositionStatic},
}

// Catalog returns fresh copies of every layout entry, ordered by index.
func Catalog() []Variant {
	out := make([]Variant, 0, CatalogSize)
	for i, a := range archetypes {
		out = append(out, build(i+1, a))
	}
	return out
}

func build(index int, a archetype) Variant {
	v := Variant{
		ID:         fmt.Sprintf("layout-%d", index),
		Index:      index,
		Name:       a.name,
		Adjustable: a.adjustable,
		Regions: []Region{
			{Name: RegionHeader, Position: a.headerPosition, Placement: PlacementTop, Class: "region-header header--" + string(a.headerPosition)},
			{Name: RegionSearch, Position: PositionStatic},
			{Name: RegionSidebar},
			{Name: RegionContent, Position: PositionStatic},
			{Name: RegionFooter, Position: PositionStatic, Placement: PlacementBottom, Class: "region-footer"},
		},
	}
	for i := range v.Regions {
		if v.Regions[i].Name != RegionSearch {
			continue
		}
		if a.searchInHeader {
			v.Regions[i].Placement = PlacementTop
			v.Regions[i].Class = "region-search search--header"
		} else {
			v.Regions[i].Placement = PlacementLeft
			v.Regions[i].Class = "region-search search--content"
		}
	}
	return arrange(v, a.sidebar)
}

// rank is the render sequence of each region for a given sidebar placement.
func rank(name string, sidebar Placement) int {
	switch name {
	case RegionHeader:
		return 0
	case RegionSearch:
		return 2
	case RegionContent:
		return 4
	case RegionFooter:
		return 6
	case RegionSidebar:
		switch sidebar {
		case PlacementTop:
			return 1
		case PlacementLeft:
			return 3
		case PlacementRight:
			return 5
		case PlacementBottom:
			return 5
		default:
			return 7
		}
	}
	return 8
}

// arrange sets the sidebar placement and recomputes every field that depends
// on it: region order, sidebar position and class, content offset and the
// body flex direction. v must already be a private copy.
func arrange(v Variant, sidebar Placement) Variant {
	for i := range v.Regions {
		region := &v.Regions[i]
		switch region.Name {
		case RegionSidebar:
			region.Placement = sidebar
			region.Position = PositionStatic
			if sidebar == PlacementFloating {
				region.Position = PositionFixed
			}
			region.Class = "region-sidebar sidebar--" + string(sidebar)
		case RegionContent:
			offset := sidebar
			if sidebar == PlacementFloating {
				offset = ""
			}
			region.Offset = offset
			region.Class = "region-content"
			if offset != "" {
				region.Class += " content--offset-" + string(offset)
			}
		}
	}
	switch sidebar {
	case PlacementLeft, PlacementRight:
		v.Direction = "row"
	default:
		v.Direction = "column"
	}
	sort.SliceStable(v.Regions, func(i, j int) bool {
		return rank(v.Regions[i].Name, sidebar) < rank(v.Regions[j].Name, sidebar)
	})
	for i := range v.Regions {
		v.Regions[i].Order = i
	}
	return v
}
