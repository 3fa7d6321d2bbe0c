package plate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// defaultDPI is the resolution at which one user unit maps to one pixel.
const defaultDPI = 96

// Native exports targets without an external tool. The whole document is
// rasterized once per run and each target is cropped out of that canvas,
// which is the region Inkscape exports for an object id.
type Native struct {
	DPI        float64
	Background color.Color

	doc    *Document
	canvas *image.RGBA
	box    ViewBox
}

// Export crops the bounds of t out of the rendered document and saves it as PNG.
func (n *Native) Export(ctx context.Context, doc *Document, t Target, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.doc != doc {
		if err := n.render(doc); err != nil {
			return err
		}
	}

	scale := n.scale()
	b := t.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("target %q has an empty area", t.ID)
	}
	region := image.Rect(
		int(math.Floor((b.X-n.box.X)*scale)),
		int(math.Floor((b.Y-n.box.Y)*scale)),
		int(math.Ceil((b.X+b.Width-n.box.X)*scale)),
		int(math.Ceil((b.Y+b.Height-n.box.Y)*scale)),
	)
	if region.Intersect(n.canvas.Bounds()).Empty() {
		return fmt.Errorf("target %q lies outside of the document", t.ID)
	}

	return imaging.Save(imaging.Crop(n.canvas, region), dst)
}

func (n *Native) scale() float64 {
	if n.DPI <= 0 {
		return 1
	}
	return n.DPI / defaultDPI
}

// render rasterizes the whole document into the canvas.
func (n *Native) render(doc *Document) error {
	f, err := os.Open(doc.Path)
	if err != nil {
		return fmt.Errorf("unable to open the source file: %w", err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("unable to rasterize %s: %w", doc.Path, err)
	}

	box := ViewBox{X: icon.ViewBox.X, Y: icon.ViewBox.Y, W: icon.ViewBox.W, H: icon.ViewBox.H}
	if box.W <= 0 || box.H <= 0 {
		var ok bool
		if box, ok = doc.ViewBox(); !ok {
			return errors.New("the source document has no usable viewBox")
		}
		icon.ViewBox.X, icon.ViewBox.Y = box.X, box.Y
		icon.ViewBox.W, icon.ViewBox.H = box.W, box.H
	}

	scale := n.scale()
	w, h := box.W*scale, box.H*scale
	canvas := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
	if n.Background != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(n.Background), image.Point{}, draw.Src)
	}

	icon.SetTarget(0, 0, w, h)
	width, height := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	n.doc, n.canvas, n.box = doc, canvas, box
	return nil
}
