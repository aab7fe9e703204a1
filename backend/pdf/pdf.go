// Package pdf implements a backend writing a PDF file,
// with github.com/jung-kurt/gofpdf.
//
// The Go fonts used by [text.FaceMeasurer] are embedded, so that
// the text advances match the ones used during layout.
package pdf

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/benoitkugler/printlayout/backend"
	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/images"
	"github.com/benoitkugler/printlayout/text"
)

type Fl = backend.Fl

// one CSS pixel is 0.75 PDF point
const pxToPt = 0.75

func pt(v Fl) float64 { return float64(v) * pxToPt }

// Metadata is written in the document information dictionary.
type Metadata struct {
	Title   string
	Creator string
	// CreationDate defaults to the time of [Backend.Finish].
	CreationDate time.Time
}

var _ backend.Backend = (*Backend)(nil)

// Backend accumulates the pages in memory and writes
// the PDF file when finished.
type Backend struct {
	out      io.Writer
	measurer text.Measurer
	meta     Metadata

	pdf    *gofpdf.Fpdf
	fonts  map[text.FontOrigin]string // registered families
	images map[int]string             // registered images
}

// New returns a backend writing to `out`. `measurer` is used to position
// the text runs when spacing is added between glyphs or words.
func New(out io.Writer, measurer text.Measurer, meta Metadata) *Backend {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: 595.28, Ht: 841.89}})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
	}
	return &Backend{
		out: out, measurer: measurer, meta: meta,
		pdf:    pdf,
		fonts:  make(map[text.FontOrigin]string),
		images: make(map[int]string),
	}
}

func (b *Backend) BeginPage(page *layout.Page) error {
	b.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pt(Fl(page.Width)), Ht: pt(Fl(page.Height))})
	return b.pdf.Error()
}

func (b *Backend) PaintBox(f *layout.Fragment) error {
	if b.pdf.PageNo() == 0 {
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
			b.drawText(td)
		}
	case layout.ReplacedFragment:
		if backend.IsVisible(f) {
			if err := b.drawImage(f); err != nil {
				return err
			}
		}
	}
	return b.pdf.Error()
}

func (b *Backend) Finish() error {
	date := b.meta.CreationDate
	if date.IsZero() {
		date = time.Now()
	}
	b.pdf.SetCreationDate(date)
	if err := b.pdf.Output(b.out); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// withAlpha runs `paint` with the transparency of `c`.
func (b *Backend) withAlpha(c color.NRGBA, paint func()) {
	if c.A == 255 {
		paint()
		return
	}
	b.pdf.SetAlpha(float64(c.A)/255, "Normal")
	paint()
	b.pdf.SetAlpha(1, "Normal")
}

func (b *Backend) fill(r backend.Rectangle, c color.NRGBA) {
	b.withAlpha(c, func() {
		b.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		b.pdf.Rect(pt(r.X), pt(r.Y), pt(r.Width), pt(r.Height), "F")
	})
}

// family registers the font file used for `fd`, if needed,
// and returns its family name.
func (b *Backend) family(fd text.FontDescription) (string, string) {
	origin := text.NewFontOrigin(fd)
	style := ""
	if origin.Bold {
		style += "B"
	}
	if origin.Italic {
		style += "I"
	}
	family, ok := b.fonts[origin]
	if !ok {
		family = "go"
		if origin.Mono {
			family = "gomono"
		}
		b.pdf.AddUTF8FontFromBytes(family, style, origin.TTF())
		b.fonts[origin] = family
	}
	return family, style
}

func (b *Backend) drawText(td backend.TextDrawing) {
	family, style := b.family(td.Font)
	b.pdf.SetFont(family, style, pt(td.Font.Size))
	b.withAlpha(td.Color, func() {
		b.pdf.SetTextColor(int(td.Color.R), int(td.Color.G), int(td.Color.B))
		for _, run := range td.Runs(b.measurer) {
			b.pdf.Text(pt(run.X), pt(td.Y), run.Text)
		}
	})
}

// imageType returns the gofpdf name of the format, and the content
// to embed, converted to PNG for the formats not supported by gofpdf.
func imageType(img *images.RasterImage) (string, []byte, error) {
	switch img.Format {
	case "png", "jpeg", "gif":
		return img.Format, img.Content, nil
	default:
		content, err := img.PNG()
		return "png", content, err
	}
}

func (b *Backend) drawImage(f *layout.Fragment) error {
	img, ok := f.Image.(*images.RasterImage)
	if !ok || img == nil {
		return nil
	}
	area := backend.ImageArea(f)
	if area.IsEmpty() {
		return nil
	}
	name, ok := b.images[img.ID]
	if !ok {
		kind, content, err := imageType(img)
		if err != nil {
			return fmt.Errorf("converting image: %w", err)
		}
		name = fmt.Sprintf("image-%d", img.ID)
		b.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: kind}, bytes.NewReader(content))
		b.images[img.ID] = name
	}
	b.pdf.ImageOptions(name, pt(area.X), pt(area.Y), pt(area.Width), pt(area.Height), false,
		gofpdf.ImageOptions{ImageType: ""}, 0, "")
	return nil
}
