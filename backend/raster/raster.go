// Package raster implements a backend drawing each page
// to an RGBA image, with golang.org/x/image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/printlayout/backend"
	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/images"
	"github.com/benoitkugler/printlayout/logger"
	"github.com/benoitkugler/printlayout/text"
)

type Fl = backend.Fl

// PageSink receives each page once it is complete.
type PageSink func(index int, img *image.RGBA) error

// PNGSink returns a [PageSink] encoding the pages as PNG files
// in the writers returned by `create`.
func PNGSink(create func(index int) (io.WriteCloser, error)) PageSink {
	return func(index int, img *image.RGBA) error {
		w, err := create(index)
		if err != nil {
			return err
		}
		if err := png.Encode(w, img); err != nil {
			w.Close()
			return fmt.Errorf("encoding page %d: %w", index+1, err)
		}
		return w.Close()
	}
}

var _ backend.Backend = (*Backend)(nil)

// Backend paints pages on images, one CSS pixel being
// `Scale` device pixels.
type Backend struct {
	faces *text.FaceMeasurer
	scale Fl
	sink  PageSink

	page      *image.RGBA
	pageIndex int
}

// New returns a backend painting with the fonts of `faces`, which should be the
// measurer used for the layout. A zero `scale` means 1.
func New(faces *text.FaceMeasurer, scale Fl, sink PageSink) *Backend {
	if scale <= 0 {
		scale = 1
	}
	return &Backend{faces: faces, scale: scale, sink: sink}
}

// flush sends the current page to the sink.
func (b *Backend) flush() error {
	if b.page == nil {
		return nil
	}
	img := b.page
	b.page = nil
	return b.sink(b.pageIndex, img)
}

func (b *Backend) BeginPage(page *layout.Page) error {
	if err := b.flush(); err != nil {
		return err
	}
	width := int(math.Ceil(float64(page.Width) * b.scale))
	height := int(math.Ceil(float64(page.Height) * b.scale))
	b.page = image.NewRGBA(image.Rect(0, 0, width, height))
	b.pageIndex = page.Index
	// pages are white
	draw.Draw(b.page, b.page.Bounds(), image.White, image.Point{}, draw.Src)
	return nil
}

// Page returns the page being painted.
func (b *Backend) Page() *image.RGBA { return b.page }

func (b *Backend) PaintBox(f *layout.Fragment) error {
	if b.page == nil {
		return fmt.Errorf("PaintBox called before BeginPage")
	}
	if area, c, ok := backend.Background(f); ok {
		b.fill(area, c)
	}
	for _, edge := range backend.Borders(f) {
		for _, piece := range edge.Pieces() {
			b.fill(piece, edge.Color)
		}
	}
	switch f.Kind {
	case layout.TextFragment:
		if td, ok := backend.NewTextDrawing(f); ok {
			return b.drawText(td)
		}
	case layout.ReplacedFragment:
		if backend.IsVisible(f) {
			b.drawImage(f)
		}
	}
	return nil
}

func (b *Backend) Finish() error { return b.flush() }

// device returns the pixels covered by `r`.
func (b *Backend) device(r backend.Rectangle) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X*b.scale)), int(math.Round(r.Y*b.scale)),
		int(math.Round((r.X+r.Width)*b.scale)), int(math.Round((r.Y+r.Height)*b.scale)),
	)
}

func (b *Backend) fill(r backend.Rectangle, c color.NRGBA) {
	draw.Draw(b.page, b.device(r), image.NewUniform(c), image.Point{}, draw.Over)
}

func (b *Backend) drawText(td backend.TextDrawing) error {
	fd := td.Font
	fd.Size *= b.scale
	face, err := b.faces.Face(fd)
	if err != nil {
		return err
	}
	drawer := font.Drawer{Dst: b.page, Src: image.NewUniform(td.Color), Face: face}
	for _, run := range td.Runs(b.faces) {
		drawer.Dot = fixed.Point26_6{X: toFixed(run.X * b.scale), Y: toFixed(td.Y * b.scale)}
		drawer.DrawString(run.Text)
	}
	return nil
}

func toFixed(v Fl) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func (b *Backend) drawImage(f *layout.Fragment) {
	img, ok := f.Image.(*images.RasterImage)
	if !ok || img == nil {
		return
	}
	area := backend.ImageArea(f)
	if area.IsEmpty() {
		return
	}
	dst := b.device(area)
	if dst.Size() == img.Image.Bounds().Size() {
		draw.Draw(b.page, dst, img.Image, img.Image.Bounds().Min, draw.Over)
		return
	}
	draw.BiLinear.Scale(b.page, dst, img.Image, img.Image.Bounds(), draw.Over, nil)
	logger.ProgressLogger.Printf("Scaled image %d to %dx%d", img.ID, dst.Dx(), dst.Dy())
}
