// Package tracer provides functions to dump the laid out pages,
// and a backend recording the painting calls, which may be used in debug mode.
package tracer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/utils"
)

type Tracer struct {
	out io.Writer
}

// NewTracerWriter returns a tracer writing to `out`.
func NewTracerWriter(out io.Writer) Tracer { return Tracer{out: out} }

func FormatFloat(v properties.Float) string {
	return strconv.FormatFloat(utils.RoundPrec(utils.Fl(v), 2), 'g', -1, 64)
}

func (t Tracer) Dump(line string) {
	fmt.Fprintln(t.out, line)
}

// DumpTree prints the fragment tree rooted at `root`, one
// fragment per line, with its margin box position and content size.
func (t Tracer) DumpTree(root *layout.Fragment, context string) {
	fmt.Fprintln(t.out, context)

	var printer func(f *layout.Fragment, indent int)
	printer = func(f *layout.Fragment, indent int) {
		fmt.Fprint(t.out, strings.Repeat(" ", indent))
		fmt.Fprintf(t.out, "%s: %s %s %s %s", f.Kind,
			FormatFloat(f.PositionX),
			FormatFloat(f.PositionY),
			FormatFloat(f.Width),
			FormatFloat(f.Height),
		)
		if !f.IsStart || !f.IsEnd {
			fmt.Fprintf(t.out, " [start=%t end=%t]", f.IsStart, f.IsEnd)
		}
		fmt.Fprintln(t.out)
		if f.Kind == layout.TextFragment {
			fmt.Fprint(t.out, strings.Repeat(" ", indent+1))
			fmt.Fprintln(t.out, f.Text)
		}

		for _, child := range f.Children {
			printer(child, indent+1)
		}
	}

	printer(root, 0)

	fmt.Fprintln(t.out)
}

// DumpPages prints the fragment trees of every page,
// including the fixed boxes.
func (t Tracer) DumpPages(pages []*layout.Page) {
	for _, page := range pages {
		context := fmt.Sprintf("Page %d (%sx%s)", page.Index+1, FormatFloat(page.Width), FormatFloat(page.Height))
		if page.Root == nil {
			t.Dump(context + " : empty")
			continue
		}
		t.DumpTree(page.Root, context)
		for _, f := range page.Fixed {
			t.DumpTree(f, "Fixed")
		}
	}
}
