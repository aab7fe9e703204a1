package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/printlayout/backend"
	"github.com/benoitkugler/printlayout/backend/pdf"
	"github.com/benoitkugler/printlayout/backend/raster"
	"github.com/benoitkugler/printlayout/html/document"
	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/images"
	"github.com/benoitkugler/printlayout/logger"
	"github.com/benoitkugler/printlayout/text"
	"github.com/benoitkugler/printlayout/utils"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <input.html>...",
		Short: "Render HTML files to PNG images or PDF files",
		Long: `Render lays out each input file and writes it in the selected format.

With one input, the output defaults to the input name with the format extension.
With several inputs, --output is a directory. PNG output writes one image per page,
suffixed by the page number when there are several pages.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), args, output)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file, or directory with several inputs")
	flags.StringP("format", "f", "", "output format: png or pdf (default pdf)")
	flags.StringSlice("user-css", nil, "user stylesheet files")
	flags.String("medium", "", "media type used to select the stylesheets (default print)")
	flags.Int("max-pages", 0, "maximum number of pages of a document")
	flags.Float64("scale", 0, "device pixels per CSS pixel, for PNG output (default 1)")

	for key, flag := range map[string]string{
		"format": "format", "user_css": "user-css", "medium": "medium",
		"max_pages": "max-pages", "scale": "scale",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

// render lays out the inputs concurrently, then writes them
// one after the other.
func (a *app) render(ctx context.Context, inputs []string, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	faces := text.NewFaceMeasurer()
	docs := make([]*document.Document, len(inputs))
	for i, input := range inputs {
		doc, err := a.loadDocument(input, faces)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	err := document.LayoutAll(ctx, docs, a.cfg.Concurrency)
	if err != nil && !errors.Is(err, layout.ErrTooManyPages) {
		return err
	}

	for i, doc := range docs {
		out := outputPath(inputs[i], output, a.cfg.Format, len(inputs) > 1)
		err := a.write(doc, faces, out)
		if errors.Is(err, layout.ErrTooManyPages) {
			logger.WarningLogger.Printf("%s: output truncated: %s", inputs[i], err)
			continue
		}
		if err != nil {
			return fmt.Errorf("rendering %s: %w", inputs[i], err)
		}
		logger.ProgressLogger.With("document", doc.ID().String()).Infof("Written %s", out)
	}
	return nil
}

func (a *app) loadDocument(input string, faces *text.FaceMeasurer) (*document.Document, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	logger.ProgressLogger.Printf("Step 1 - Parsing %s", input)
	root, err := tree.ParseHTML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	opts, err := a.cfg.DocumentOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		document.WithMeasurer(faces),
		document.WithFetcher(images.NewFileFetcher(filepath.Dir(input))),
	)
	doc, err := document.NewDocument(root, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return doc, nil
}

// outputPath returns the file written for `input`.
func outputPath(input, output, format string, several bool) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "." + format
	switch {
	case several && output != "":
		return filepath.Join(output, name)
	case several || output == "":
		return filepath.Join(filepath.Dir(input), name)
	default:
		return output
	}
}

// pageFileName suffixes `out` with the page number, when
// there are several pages.
func pageFileName(out string, index, count int) string {
	if count == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(out, ext), index+1, ext)
}

func (a *app) write(doc *document.Document, faces *text.FaceMeasurer, out string) error {
	pages, layoutErr := doc.EnsureLaidOut()
	if layoutErr != nil && !errors.Is(layoutErr, layout.ErrTooManyPages) {
		return layoutErr
	}

	switch a.cfg.Format {
	case "png":
		sink := raster.PNGSink(func(index int) (io.WriteCloser, error) {
			return os.Create(pageFileName(out, index, len(pages)))
		})
		return doc.Draw(raster.New(faces, a.cfg.Scale, sink))
	case "pdf":
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		meta := pdf.Metadata{Title: documentTitle(doc.Root()), Creator: utils.VersionString}
		err = doc.Draw(pdf.New(f, faces, meta))
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		return err
	default:
		return fmt.Errorf("format %q: %w", a.cfg.Format, backend.ErrUnknownFormat)
	}
}

// documentTitle returns the content of the first <title> element.
func documentTitle(root tree.Element) string {
	if root.Tag() == "title" {
		return strings.TrimSpace(tree.TextContent(root))
	}
	for _, child := range root.Children() {
		if child.Tag() == "" {
			continue
		}
		if title := documentTitle(child); title != "" {
			return title
		}
	}
	return ""
}
