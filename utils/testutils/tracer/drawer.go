package tracer

import (
	"fmt"
	"io"
	"strings"

	"github.com/benoitkugler/printlayout/backend"
	"github.com/benoitkugler/printlayout/html/layout"
)

// implements a logging backend, used for debugging and tests

var _ backend.Backend = &Drawer{}

// Drawer prints the calls it receives, and records
// the painted fragments, page by page.
type Drawer struct {
	out    io.Writer
	indent int

	// Pages stores the fragments painted on each page.
	Pages [][]*layout.Fragment
	// Finished is true once Finish has been called.
	Finished bool
}

func NewDrawerNoOp() *Drawer { return &Drawer{out: io.Discard} }

// NewDrawer returns a drawer printing to `out`.
func NewDrawer(out io.Writer) *Drawer { return &Drawer{out: out} }

func (dr Drawer) println(args ...interface{}) {
	fmt.Fprint(dr.out, strings.Repeat("  ", dr.indent))
	fmt.Fprintln(dr.out, args...)
}

func (dr *Drawer) BeginPage(page *layout.Page) error {
	if dr.Finished {
		return fmt.Errorf("BeginPage called after Finish")
	}
	dr.indent = 0
	dr.println("BeginPage :", page.Index, page.Width, page.Height)
	dr.Pages = append(dr.Pages, nil)
	dr.indent = 1
	return nil
}

func (dr *Drawer) PaintBox(f *layout.Fragment) error {
	if len(dr.Pages) == 0 {
		return fmt.Errorf("PaintBox called before BeginPage")
	}
	dr.println("PaintBox :", f)
	last := len(dr.Pages) - 1
	dr.Pages[last] = append(dr.Pages[last], f)
	return nil
}

func (dr *Drawer) Finish() error {
	dr.indent = 0
	dr.println("Finish :", len(dr.Pages), "page(s)")
	dr.Finished = true
	return nil
}

// Texts returns the text painted on the page at `index`,
// one fragment per item.
func (dr *Drawer) Texts(index int) []string {
	var out []string
	for _, f := range dr.Pages[index] {
		if f.Kind == layout.TextFragment && strings.TrimSpace(f.Text) != "" {
			out = append(out, f.Text)
		}
	}
	return out
}
