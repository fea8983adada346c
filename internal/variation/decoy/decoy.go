// Package decoy interposes structurally inert wrapper elements around
// rendered content to vary DOM depth and naming per seed.
//
// Wrappers are plain div elements styled display:contents. They carry no
// role, label or text, so neither layout nor the accessibility tree changes.
package decoy

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxDepth is the largest number of wrappers Plan emits.
const MaxDepth = 2

const inertStyle = "display:contents"

var dataAttrs = []string{"data-wrap", "data-slot", "data-frame", "data-shell"}

// Layer is one wrapper element.
type Layer struct {
	Class    string
	DataAttr string
	DataVal  string
}

// Plan returns the wrappers for (componentKey, seed), outermost first.
func Plan(componentKey string, seed int) []Layer {
	h := xxhash.Sum64String(componentKey + "#" + strconv.Itoa(seed))
	depth := int(h % (MaxDepth + 1))
	layers := make([]Layer, 0, depth)
	for i := 0; i < depth; i++ {
		h = xxhash.Sum64String(fmt.Sprintf("%016x/%d", h, i))
		layers = append(layers, Layer{
			Class:    fmt.Sprintf("w-%06x", h&0xffffff),
			DataAttr: dataAttrs[(h>>24)%uint64(len(dataAttrs))],
			DataVal:  strconv.FormatUint((h>>32)%1000, 10),
		})
	}
	return layers
}

func (l Layer) openTag() string {
	return `<div class="` + templ.EscapeString(l.Class) + `" ` + l.DataAttr + `="` + templ.EscapeString(l.DataVal) + `" style="` + inertStyle + `">`
}

func (l Layer) node() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "class", Val: l.Class},
			{Key: l.DataAttr, Val: l.DataVal},
			{Key: "style", Val: inertStyle},
		},
	}
}

// Wrap returns c enclosed in the wrappers planned for (componentKey, seed).
// When no wrapper is planned, c itself is returned.
func Wrap(componentKey string, seed int, c templ.Component) templ.Component {
	layers := Plan(componentKey, seed)
	if c == nil || len(layers) == 0 {
		return c
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, l := range layers {
			if _, err := io.WriteString(w, l.openTag()); err != nil {
				return err
			}
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
		for range layers {
			if _, err := io.WriteString(w, "</div>"); err != nil {
				return err
			}
		}
		return nil
	})
}

// WrapNode encloses n in the wrappers planned for (componentKey, seed) and
// returns the outermost node. When n is attached, the outermost wrapper takes
// its place in the parent. When no wrapper is planned, n is returned as is.
func WrapNode(componentKey string, seed int, n *html.Node) *html.Node {
	layers := Plan(componentKey, seed)
	if n == nil || len(layers) == 0 {
		return n
	}
	parent, next := n.Parent, n.NextSibling
	if parent != nil {
		parent.RemoveChild(n)
	}
	inner := n
	for i := len(layers) - 1; i >= 0; i-- {
		wrapper := layers[i].node()
		wrapper.AppendChild(inner)
		inner = wrapper
	}
	if parent != nil {
		parent.InsertBefore(inner, next)
	}
	return inner
}
