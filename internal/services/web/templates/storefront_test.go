package templates

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/seedshift/internal/variation"
	"github.com/louisbranch/seedshift/internal/variation/attr"
	"github.com/louisbranch/seedshift/internal/variation/catalog"
	"github.com/louisbranch/seedshift/internal/variation/gate"
	"github.com/louisbranch/seedshift/internal/variation/layout"
	"golang.org/x/net/html"
)

func noEnv(string) (string, bool) { return "", false }

func render(t *testing.T, q url.Values, products []Product) *html.Node {
	t.Helper()
	engine := variation.New(variation.Config{Gate: gate.Gate{Lookup: noEnv}})
	var b strings.Builder
	view := StorefrontView{Page: engine.Load(q, nil), Products: products, Query: q}
	if err := Storefront(view).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := html.Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func TestStorefrontRendersEveryRegionOnce(t *testing.T) {
	t.Parallel()

	q := url.Values{"seed": {"14"}}
	doc := render(t, q, []Product{{SKU: "a", Name: "A", Price: "$1"}})
	engine := variation.New(variation.Config{Gate: gate.Gate{Lookup: noEnv}})
	lay := engine.Load(q, nil).Layout()

	var got []string
	for _, n := range findAll(doc, func(n *html.Node) bool { return n.Data == "section" }) {
		got = append(got, attrOf(n, "data-region"))
	}
	if len(got) != len(lay.Regions) {
		t.Fatalf("regions = %v, want %v", got, lay.RegionNames())
	}
	seen := map[string]bool{}
	for _, name := range got {
		if seen[name] {
			t.Fatalf("region %q rendered twice", name)
		}
		seen[name] = true
	}
}

func TestStorefrontGroupsRowLayouts(t *testing.T) {
	t.Parallel()

	engine := variation.New(variation.Config{Gate: gate.Gate{Lookup: noEnv}})
	for s := 1; s <= 30; s++ {
		q := url.Values{"seed": {strconv.Itoa(s)}}
		lay := engine.Load(q, nil).Layout()
		rows := findAll(render(t, q, nil), func(n *html.Node) bool { return attrOf(n, "class") == "body-row" })
		if lay.Direction != "row" {
			if len(rows) != 0 {
				t.Fatalf("seed %d: column layout %s rendered a body row", s, lay.ID)
			}
			continue
		}
		if len(rows) != 1 {
			t.Fatalf("seed %d: body rows = %d, want 1", s, len(rows))
		}
		var inside []string
		for _, n := range findAll(rows[0], func(n *html.Node) bool { return n.Data == "section" }) {
			inside = append(inside, attrOf(n, "data-region"))
		}
		if len(inside) != 2 {
			t.Fatalf("seed %d: body row regions = %v", s, inside)
		}
	}
}

func TestStorefrontFormsCarryVariationParams(t *testing.T) {
	t.Parallel()

	q := url.Values{"seed": {"9"}, "enable_dynamic": {"v1"}, "utm": {"mail"}}
	doc := render(t, q, []Product{{SKU: "a", Name: "A", Price: "$1"}})
	forms := findAll(doc, func(n *html.Node) bool { return n.Data == "form" })
	if len(forms) == 0 {
		t.Fatal("no forms rendered")
	}
	for _, form := range forms {
		var names []string
		for _, in := range findAll(form, func(n *html.Node) bool { return attrOf(n, "type") == "hidden" }) {
			names = append(names, attrOf(in, "name")+"="+attrOf(in, "value"))
		}
		if diff := cmp.Diff([]string{"seed=9", "enable_dynamic=v1"}, names); diff != "" {
			t.Fatalf("form %s hidden inputs mismatch (-want +got):\n%s", attrOf(form, "action"), diff)
		}
	}
}

func TestStorefrontEscapesProductText(t *testing.T) {
	t.Parallel()

	doc := render(t, url.Values{}, []Product{{SKU: `x"y`, Name: "<script>alert(1)</script>", Price: "$1"}})
	if scripts := findAll(doc, func(n *html.Node) bool {
		return n.Data == "script" && attrOf(n, "src") == ""
	}); len(scripts) != 0 {
		t.Fatal("product name rendered as markup")
	}
	cards := findAll(doc, func(n *html.Node) bool { return n.Data == "article" })
	if len(cards) != 1 || attrOf(cards[0], "data-sku") != `x"y` {
		t.Fatalf("card sku attribute not preserved")
	}
}

func TestStorefrontEscapesCatalogAttributes(t *testing.T) {
	t.Parallel()

	hostile := `card" onclick="alert(1)`
	engine := variation.New(variation.Config{
		Gate: gate.Gate{Lookup: noEnv},
		Catalog: catalog.Catalog{Attributes: attr.Set{
			Classes: attr.VariantMap{"productCard": {hostile}},
			IDs:     attr.VariantMap{"productGrid": {`grid"><b>x</b>`}},
		}},
	})
	q := url.Values{"seed": {"5"}}
	var b strings.Builder
	view := StorefrontView{Page: engine.Load(q, nil), Products: []Product{{SKU: "a", Name: "A", Price: "$1"}}, Query: q}
	if err := Storefront(view).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := html.Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cards := findAll(doc, func(n *html.Node) bool { return n.Data == "article" })
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	if got := attrOf(cards[0], "class"); got != hostile {
		t.Fatalf("card class = %q, want %q", got, hostile)
	}
	if got := attrOf(cards[0], "onclick"); got != "" {
		t.Fatalf("catalog class injected onclick=%q", got)
	}
	if bold := findAll(doc, func(n *html.Node) bool { return n.Data == "b" }); len(bold) != 0 {
		t.Fatal("catalog id injected markup")
	}
}

func TestStorefrontSectionsCarryLayoutOrder(t *testing.T) {
	t.Parallel()

	q := url.Values{"seed": {"7"}}
	engine := variation.New(variation.Config{Gate: gate.Gate{Lookup: noEnv}})
	lay := engine.Load(q, nil).Layout()
	want := map[string]string{}
	for _, region := range lay.Regions {
		want[region.Name] = fmt.Sprintf("order:%d;position:%s", region.Order, region.Position)
	}
	for _, n := range findAll(render(t, q, nil), func(n *html.Node) bool { return n.Data == "section" }) {
		name := attrOf(n, "data-region")
		if got := attrOf(n, "style"); got != want[name] {
			t.Fatalf("section %q style = %q, want %q", name, got, want[name])
		}
	}
}

func TestBodyGroupsKeepsRenderOrder(t *testing.T) {
	t.Parallel()

	row := layout.Variant{Direction: "row", Regions: []layout.Region{
		{Name: layout.RegionHeader},
		{Name: layout.RegionSidebar},
		{Name: layout.RegionContent},
		{Name: layout.RegionFooter},
	}}
	var got []string
	for _, g := range bodyGroups(row) {
		names := make([]string, 0, len(g.Regions))
		for _, r := range g.Regions {
			names = append(names, r.Name)
		}
		got = append(got, fmt.Sprintf("%t:%s", g.Row, strings.Join(names, ",")))
	}
	want := []string{"false:header", "true:sidebar,content", "false:footer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bodyGroups(row) mismatch (-want +got):\n%s", diff)
	}

	column := row
	column.Direction = "column"
	if groups := bodyGroups(column); len(groups) != 4 {
		t.Fatalf("bodyGroups(column) = %d groups, want 4", len(groups))
	}
}
