package plate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Inkscape attribute names used to recognize layers and render targets.
const (
	attrGroupMode  = "inkscape:groupmode"
	attrLabel      = "inkscape:label"
	groupModeLayer = "layer"
)

var translateRe = regexp.MustCompile(`translate\(\s*([-+0-9.eE]+)(?:[\s,]+([-+0-9.eE]+))?\s*\)`)

// Bounds is the rectangle of a render target in document user units.
type Bounds struct {
	X, Y, Width, Height float64
}

// Target is a rectangle inside a plate layer. Its label is the output path
// relative to the output root.
type Target struct {
	ID     string
	Label  string
	Bounds Bounds
}

// Layer is an Inkscape layer whose label contains the plate marker.
type Layer struct {
	ID      string
	Label   string
	Targets []Target
}

// Scan walks the document in order and returns the plate layers with their
// rectangle targets. A group only counts when its group mode is "layer":
// pasted groups keep the label of the layer they were copied from.
func Scan(doc *Document, marker string) []Layer {
	var (
		layers []Layer
		walk   func(el *etree.Element, dx, dy float64)
	)
	walk = func(el *etree.Element, dx, dy float64) {
		tx, ty := translation(el)
		dx, dy = dx+tx, dy+ty

		if isPlateLayer(el, marker) {
			layers = append(layers, newLayer(el, dx, dy))
		}
		for _, child := range el.ChildElements() {
			walk(child, dx, dy)
		}
	}
	walk(doc.root, 0, 0)

	return layers
}

func isPlateLayer(el *etree.Element, marker string) bool {
	if el.Tag != "g" {
		return false
	}
	if el.SelectAttrValue(attrGroupMode, "") != groupModeLayer {
		return false
	}
	return strings.Contains(el.SelectAttrValue(attrLabel, ""), marker)
}

func newLayer(el *etree.Element, dx, dy float64) Layer {
	l := Layer{
		ID:    el.SelectAttrValue("id", ""),
		Label: el.SelectAttrValue(attrLabel, ""),
	}
	for _, rect := range el.SelectElements("rect") {
		tx, ty := translation(rect)
		l.Targets = append(l.Targets, Target{
			ID:    rect.SelectAttrValue("id", ""),
			Label: rect.SelectAttrValue(attrLabel, ""),
			Bounds: Bounds{
				X:      attrFloat(rect, "x") + dx + tx,
				Y:      attrFloat(rect, "y") + dy + ty,
				Width:  attrFloat(rect, "width"),
				Height: attrFloat(rect, "height"),
			},
		})
	}
	return l
}

// translation returns the offset of a translate() transform. Any other kind
// of transform is ignored.
func translation(el *etree.Element) (float64, float64) {
	m := translateRe.FindStringSubmatch(el.SelectAttrValue("transform", ""))
	if m == nil {
		return 0, 0
	}
	x, _ := strconv.ParseFloat(m[1], 64)
	y, _ := strconv.ParseFloat(m[2], 64)
	return x, y
}

func attrFloat(el *etree.Element, key string) float64 {
	n, _ := parseLength(el.SelectAttrValue(key, ""))
	return n
}
