package plate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoSource is returned by Load when the source document does not exist.
// The exporter treats it as "nothing to do".
var ErrNoSource = errors.New("source document not found")

// ParseError reports a source document which could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse the source document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ViewBox is the user coordinate system of the document root.
type ViewBox struct {
	X, Y, W, H float64
}

// Document is the parsed icon source. It is read only once loaded.
type Document struct {
	Path string
	root *etree.Element
}

// Load reads and parses the SVG document found at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNoSource, err)
		}
		return nil, fmt.Errorf("unable to open the source file: %w", err)
	}
	defer f.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Path: path, Err: errors.New("missing root element")}
	}
	return &Document{Path: path, root: root}, nil
}

// ViewBox returns the root viewBox. When the attribute is missing it falls back
// to the width and height of the root element.
func (d *Document) ViewBox() (ViewBox, bool) {
	if vb := d.root.SelectAttrValue("viewBox", ""); vb != "" {
		f := strings.FieldsFunc(vb, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
		if len(f) == 4 {
			var v [4]float64
			for i := range f {
				n, err := strconv.ParseFloat(f[i], 64)
				if err != nil {
					return ViewBox{}, false
				}
				v[i] = n
			}
			return ViewBox{X: v[0], Y: v[1], W: v[2], H: v[3]}, v[2] > 0 && v[3] > 0
		}
	}
	w, okw := parseLength(d.root.SelectAttrValue("width", ""))
	h, okh := parseLength(d.root.SelectAttrValue("height", ""))
	if !okw || !okh || w <= 0 || h <= 0 {
		return ViewBox{}, false
	}
	return ViewBox{W: w, H: h}, true
}

// parseLength parses a plain or pixel suffixed SVG length.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
