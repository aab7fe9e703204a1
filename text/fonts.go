package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/printlayout/logger"
)

// FontOrigin identifies one of the embedded font files.
type FontOrigin struct {
	Mono, Bold, Italic bool
}

// TTF returns the content of the font file.
func (fo FontOrigin) TTF() []byte {
	switch fo {
	case FontOrigin{}:
		return goregular.TTF
	case FontOrigin{Bold: true}:
		return gobold.TTF
	case FontOrigin{Italic: true}:
		return goitalic.TTF
	case FontOrigin{Bold: true, Italic: true}:
		return gobolditalic.TTF
	case FontOrigin{Mono: true}:
		return gomono.TTF
	case FontOrigin{Mono: true, Bold: true}:
		return gomonobold.TTF
	case FontOrigin{Mono: true, Italic: true}:
		return gomonoitalic.TTF
	default:
		return gomonobolditalic.TTF
	}
}

// NewFontOrigin selects the font file used for the given description.
// Only the Go fonts are available: serif and sans-serif families both
// resolve to Go Regular, monospace ones to Go Mono.
func NewFontOrigin(fd FontDescription) FontOrigin {
	return FontOrigin{Mono: fd.IsMonospace(), Bold: fd.IsBold(), Italic: fd.Style != FSNormal}
}

type faceKey struct {
	origin FontOrigin
	size   Fl
}

// FaceMeasurer is a [Measurer] using the Go fonts,
// parsed with golang.org/x/image/font/opentype.
// Faces are cached and shared; the zero value is not usable,
// use [NewFaceMeasurer].
type FaceMeasurer struct {
	mu    sync.Mutex
	fonts map[FontOrigin]*opentype.Font
	faces map[faceKey]font.Face
}

var _ Measurer = (*FaceMeasurer)(nil)

func NewFaceMeasurer() *FaceMeasurer {
	return &FaceMeasurer{
		fonts: make(map[FontOrigin]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns the face used for `fd`, at the given size.
// The returned face must not be used concurrently: callers
// should hold no other reference after the drawing of a page.
func (fm *FaceMeasurer) Face(fd FontDescription) (font.Face, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.face(fd)
}

func (fm *FaceMeasurer) face(fd FontDescription) (font.Face, error) {
	key := faceKey{origin: NewFontOrigin(fd), size: fd.Size}
	if face, ok := fm.faces[key]; ok {
		return face, nil
	}
	f, ok := fm.fonts[key.origin]
	if !ok {
		var err error
		f, err = opentype.Parse(key.origin.TTF())
		if err != nil {
			return nil, fmt.Errorf("parsing embedded font: %w", err)
		}
		fm.fonts[key.origin] = f
	}
	// with 72 DPI, one point is one pixel
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(fd.Size), DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	fm.faces[key] = face
	return face, nil
}

func toFloat(v fixed.Int26_6) Fl { return Fl(v) / 64 }

// Advance implements [Measurer]. It falls back on
// [FixedMeasurer] if the font can't be loaded.
func (fm *FaceMeasurer) Advance(text string, fd FontDescription) Fl {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	face, err := fm.face(fd)
	if err != nil {
		logger.WarningLogger.Printf("Using fixed metrics: %s", err)
		return FixedMeasurer{}.Advance(text, fd)
	}
	return toFloat(font.MeasureString(face, text))
}

// Metrics implements [Measurer].
func (fm *FaceMeasurer) Metrics(fd FontDescription) LineMetrics {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	face, err := fm.face(fd)
	if err != nil {
		logger.WarningLogger.Printf("Using fixed metrics: %s", err)
		return FixedMeasurer{}.Metrics(fd)
	}
	m := face.Metrics()
	ascent, descent := toFloat(m.Ascent), toFloat(m.Descent)
	lineGap := toFloat(m.Height) - ascent - descent
	if lineGap < 0 {
		lineGap = 0
	}
	return LineMetrics{Ascent: ascent, Descent: descent, LineGap: lineGap}
}
