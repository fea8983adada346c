package templates

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/seedshift/internal/variation"
	"github.com/louisbranch/seedshift/internal/variation/gate"
	"github.com/louisbranch/seedshift/internal/variation/layout"
	"github.com/louisbranch/seedshift/internal/variation/order"
	"github.com/louisbranch/seedshift/internal/variation/seed"
)

//go:generate templ generate -f storefront.templ

// Event types posted by storefront controls.
const (
	EventSearch     = "SEARCH"
	EventAddToCart  = "ADD_TO_CART"
	EventFilter     = "FILTER"
	EventViewDetail = "VIEW_DETAIL"
)

// CardsLabel is the order label of the product grid.
const CardsLabel = "cards"

// Product is one storefront card.
type Product struct {
	SKU   string
	Name  string
	Price string
}

// StorefrontView is the input of the storefront page.
type StorefrontView struct {
	Page     variation.Page
	Products []Product
	// Query carries the variation parameters forms post back.
	Query url.Values
}

type facet struct {
	Value string
	Label string
}

var facets = []facet{
	{Value: "in-stock", Label: "In stock"},
	{Value: "on-sale", Label: "On sale"},
	{Value: "free-shipping", Label: "Free shipping"},
}

// regionGroup is a run of regions rendered together. Row groups hold the
// sidebar and content of row layouts, which are adjacent in render order.
type regionGroup struct {
	Row     bool
	Regions []layout.Region
}

func bodyGroups(lay layout.Variant) []regionGroup {
	var groups []regionGroup
	for _, region := range lay.Regions {
		body := region.Name == layout.RegionSidebar || region.Name == layout.RegionContent
		row := lay.Direction == "row" && body
		if n := len(groups); n > 0 && groups[n-1].Row && row {
			groups[n-1].Regions = append(groups[n-1].Regions, region)
			continue
		}
		groups = append(groups, regionGroup{Row: row, Regions: []layout.Region{region}})
	}
	return groups
}

func regionSection(v StorefrontView, region layout.Region) templ.Component {
	return v.Page.Wrap(region.Name, regionBody(v, region))
}

func regionAttrs(region layout.Region) templ.OrderedAttributes {
	return templ.OrderedAttributes{
		{Key: "data-region", Value: region.Name},
		{Key: "style", Value: fmt.Sprintf("order:%d;position:%s", region.Order, region.Position)},
	}
}

func orderedProducts(v StorefrontView) []Product {
	return order.Apply(v.Products, v.Page.Order(CardsLabel, len(v.Products)))
}

func variationMeta(p variation.Page) string {
	return fmt.Sprintf("seed %d, layout %s", p.Seed(), p.Layout().Name)
}

func carriedParams(q url.Values) []templ.KeyValue[string, string] {
	var params []templ.KeyValue[string, string]
	for _, name := range []string{seed.QueryParam, gate.QueryParam} {
		if value := strings.TrimSpace(q.Get(name)); value != "" {
			params = append(params, templ.KeyValue[string, string]{Key: name, Value: value})
		}
	}
	return params
}
