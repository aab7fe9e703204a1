// Package backend defines the targets drawing laid out pages.
//
// It aims at painting the fragments produced by the layout in an output-agnostic manner,
// so that various output formats may be generated (raster images or PDF files for instance).
//
// The primitives shared by the implementations (colors, border and background
// areas, positioned text runs) are exposed so that each backend only deals
// with its own drawing API.
package backend

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/utils"
)

type Fl = utils.Fl

// ErrUnknownFormat is returned when no backend is registered for an output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Backend is the target of the laid out pages.
//
// For each page, BeginPage is called once, then PaintBox for each
// fragment of the page, in painting order (parents before children).
// Finish is called once, after the last page.
type Backend interface {
	// BeginPage starts a new page with the dimensions of `page`.
	BeginPage(page *layout.Page) error

	// PaintBox paints the background, the borders and the content of `f`,
	// but not its children. Positions are relative to the top-left corner
	// of the page, with the y axis growing downward.
	PaintBox(f *layout.Fragment) error

	// Finish completes the output.
	Finish() error
}

// PaintPage calls BeginPage and then PaintBox for every
// fragment of `page`.
func PaintPage(b Backend, page *layout.Page) error {
	if err := b.BeginPage(page); err != nil {
		return fmt.Errorf("starting page %d: %w", page.Index+1, err)
	}
	for _, f := range page.Fragments() {
		if err := b.PaintBox(f); err != nil {
			return fmt.Errorf("painting %s on page %d: %w", f, page.Index+1, err)
		}
	}
	return nil
}
