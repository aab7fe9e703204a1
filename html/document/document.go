// Package document drives the rendering of one document:
// style resolution, formatting structure and layout.
//
// Each stage is computed at most once: its output is frozen
// and returned again on later requests.
package document

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/benoitkugler/printlayout/backend"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/boxes"
	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/images"
	"github.com/benoitkugler/printlayout/logger"
	"github.com/benoitkugler/printlayout/text"
)

var (
	// ErrInvalidRoot is returned when the root element of a document
	// is not <html>.
	ErrInvalidRoot = errors.New("invalid document root")

	// ErrPageOutOfRange is returned by [Document.DrawPage] for an
	// index not matching a laid out page.
	ErrPageOutOfRange = errors.New("page index out of range")
)

// Status is the progress of the pipeline.
type Status uint8

const (
	NotStarted Status = iota
	Styled
	Structured
	LaidOut
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Styled:
		return "styled"
	case Structured:
		return "structured"
	case LaidOut:
		return "laid out"
	default:
		return fmt.Sprintf("<invalid status %d>", uint8(s))
	}
}

// Option customizes a [Document].
type Option func(*Document)

// WithUserStylesheets adds user stylesheets, which take precedence
// over the user agent stylesheet but not over the author ones
// (except for !important declarations).
func WithUserStylesheets(sheets ...tree.Stylesheet) Option {
	return func(d *Document) { d.userSheets = append(d.userSheets, sheets...) }
}

// WithUserAgentStylesheet replaces the default user agent stylesheet.
func WithUserAgentStylesheet(sheet tree.Stylesheet) Option {
	return func(d *Document) { d.uaSheet = sheet }
}

// WithMedium selects the media type used to filter the
// <style> elements of the document. It defaults to "print".
func WithMedium(medium string) Option {
	return func(d *Document) { d.medium = medium }
}

// WithMeasurer sets the text measurer used during layout.
// It defaults to a [text.FaceMeasurer].
func WithMeasurer(m text.Measurer) Option {
	return func(d *Document) { d.measurer = m }
}

// WithFetcher sets the function used to load images.
func WithFetcher(fetcher images.UrlFetcher) Option {
	return func(d *Document) { d.fetcher = fetcher }
}

// WithLayoutOptions tunes the layout (page limit, page size override).
func WithLayoutOptions(opts layout.Options) Option {
	return func(d *Document) { d.layoutOpts = opts }
}

// Document is a parsed document, with the outputs of the
// stages already run.
//
// Its methods are safe for concurrent use; the stages run
// sequentially.
type Document struct {
	id   uuid.UUID
	root tree.Element
	log  *zap.SugaredLogger

	uaSheet    tree.Stylesheet
	userSheets []tree.Stylesheet
	medium     string
	measurer   text.Measurer
	fetcher    images.UrlFetcher
	layoutOpts layout.Options

	mu        sync.Mutex
	status    Status
	styles    *tree.StyleFor
	boxes     *boxes.Tree
	result    *layout.Result
	layoutErr error
}

// NewDocument checks that `root` is an <html> element and returns
// a document ready to be rendered. No work is done until one of
// the Ensure methods is called.
func NewDocument(root tree.Element, opts ...Option) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("nil root element: %w", ErrInvalidRoot)
	}
	if !tree.IsRoot(root) {
		return nil, fmt.Errorf("root element is <%s>: %w", root.Tag(), ErrInvalidRoot)
	}
	d := &Document{
		id:      uuid.New(),
		root:    root,
		uaSheet: tree.UserAgentStylesheet(),
		medium:  "print",
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.measurer == nil {
		d.measurer = text.NewFaceMeasurer()
	}
	d.log = logger.ProgressLogger.With("document", d.id.String())
	return d, nil
}

// ID identifies the document in the logs.
func (d *Document) ID() uuid.UUID { return d.id }

// Root returns the root element.
func (d *Document) Root() tree.Element { return d.root }

// Measurer returns the text measurer used during layout, which backends
// drawing text should use too.
func (d *Document) Measurer() text.Measurer { return d.measurer }

// Status returns the last completed stage.
func (d *Document) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// stylesheets returns the sheets of the cascade: user agent, user, then author.
func (d *Document) stylesheets() []tree.Stylesheet {
	sheets := []tree.Stylesheet{d.uaSheet}
	sheets = append(sheets, d.userSheets...)
	return append(sheets, tree.FindStylesheets(d.root, d.medium)...)
}

func (d *Document) ensureStyled() *tree.StyleFor {
	if d.status >= Styled {
		return d.styles
	}
	d.log.Infof("Step 2 - Computing styles")
	d.styles = tree.GetAllComputedStyles(d.root, d.stylesheets())
	d.status = Styled
	return d.styles
}

func (d *Document) ensureStructured() *boxes.Tree {
	if d.status >= Structured {
		return d.boxes
	}
	styles := d.ensureStyled()
	d.log.Infof("Step 3 - Building the formatting structure")
	d.boxes = boxes.BuildFormattingStructure(d.root, styles, boxes.NewURLResolver(d.fetcher))
	d.status = Structured
	return d.boxes
}

func (d *Document) ensureLaidOut() (*layout.Result, error) {
	if d.status >= LaidOut {
		return d.result, d.layoutErr
	}
	tr := d.ensureStructured()
	d.result, d.layoutErr = layout.Layout(tr, d.styles, d.measurer, d.layoutOpts)
	if d.layoutErr != nil {
		d.log.Warnf("layout incomplete: %s", d.layoutErr)
	}
	d.log.Infof("Step 5 - Document laid out on %d page(s)", len(d.result.Pages))
	d.status = LaidOut
	return d.result, d.layoutErr
}

// EnsureStyled runs the cascade if needed and returns the computed styles.
func (d *Document) EnsureStyled() *tree.StyleFor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureStyled()
}

// EnsureStructured builds the formatting structure if needed.
func (d *Document) EnsureStructured() *boxes.Tree {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureStructured()
}

// EnsureLaidOut runs the layout if needed and returns the pages.
// The same slice is returned on every call.
//
// When the page limit is reached, the pages laid out so far are returned
// with an error wrapping [layout.ErrTooManyPages].
func (d *Document) EnsureLaidOut() ([]*layout.Page, error) {
	res, err := d.Result()
	return res.Pages, err
}

// Result is the same as [Document.EnsureLaidOut], but returns
// the whole layout output, giving access to the fragments of each box.
func (d *Document) Result() (*layout.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureLaidOut()
}

// StyleFor returns the computed style of `element` (or one of its
// pseudo elements), running the cascade if needed.
// It returns nil for elements not in the document.
func (d *Document) StyleFor(element tree.Element, pseudoType string) pr.ElementStyle {
	return d.EnsureStyled().Get(element, pseudoType)
}

// Draw paints every page on `b` and finishes the output.
// A [layout.ErrTooManyPages] error is returned after the
// available pages have been drawn.
func (d *Document) Draw(b backend.Backend) error {
	pages, layoutErr := d.EnsureLaidOut()
	if layoutErr != nil && !errors.Is(layoutErr, layout.ErrTooManyPages) {
		return layoutErr
	}
	for _, page := range pages {
		if err := backend.PaintPage(b, page); err != nil {
			return err
		}
	}
	if err := b.Finish(); err != nil {
		return fmt.Errorf("finishing output: %w", err)
	}
	return layoutErr
}

// DrawPage paints the page at `index` (starting at 0) only,
// and finishes the output.
func (d *Document) DrawPage(b backend.Backend, index int) error {
	pages, layoutErr := d.EnsureLaidOut()
	if layoutErr != nil && !errors.Is(layoutErr, layout.ErrTooManyPages) {
		return layoutErr
	}
	if index < 0 || index >= len(pages) {
		return fmt.Errorf("page %d of %d: %w", index, len(pages), ErrPageOutOfRange)
	}
	if err := backend.PaintPage(b, pages[index]); err != nil {
		return err
	}
	if err := b.Finish(); err != nil {
		return fmt.Errorf("finishing output: %w", err)
	}
	return nil
}

// LayoutAll lays out the given documents concurrently, running at most
// `limit` pipelines at once (no limit if `limit` <= 0).
// It returns the first error encountered, documents not started yet
// being skipped once `ctx` is done.
func LayoutAll(ctx context.Context, docs []*Document, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := doc.EnsureLaidOut(); err != nil {
				return fmt.Errorf("document %s: %w", doc.ID(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
