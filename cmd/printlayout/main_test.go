package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/printlayout/backend"
	"github.com/benoitkugler/printlayout/html/tree"
)

const twoPages = `<html><head><title> Report </title>
<style>@page { size: 200px 100px; margin: 10px } p { margin: 0 }</style></head>
<body><p>first page</p><p style="break-before: page">second page</p></body></html>`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	return cmd.Execute()
}

func TestRenderPDF(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.html", twoPages)
	out := filepath.Join(dir, "out.pdf")

	require.NoError(t, execute(t, "render", input, "-o", out))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
	assert.True(t, bytes.Contains(content, []byte("/Count 2")))
}

func TestRenderPNG(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.html", twoPages)

	require.NoError(t, execute(t, "render", input, "--format", "png", "--scale", "2"))
	for _, name := range []string{"doc-1.png", "doc-2.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 200, img.Bounds().Dy())
	}
}

func TestRenderSeveralInputs(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	a := writeInput(t, dir, "a.html", `<p>a</p>`)
	b := writeInput(t, dir, "b.html", twoPages)

	require.NoError(t, execute(t, "render", a, b, "-o", outDir))
	for _, name := range []string{"a.pdf", "b.pdf"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err)
	}
}

func TestRenderConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.html", `<p>text</p>`)
	cssFile := writeInput(t, dir, "user.css", `body { margin: 0; background-color: red } p { margin: 0 }`)
	cfgFile := writeInput(t, dir, "config.yaml", "format: png\npage:\n  width: 50\n  height: 40\n  margins: [0]\n")

	require.NoError(t, execute(t, "render", input, "--config", cfgFile, "--user-css", cssFile))
	f, err := os.Open(filepath.Join(dir, "doc.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	r, g, _, _ := img.At(45, 2).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.html", `<p>text</p>`)

	err := execute(t, "render", input, "--format", "svg")
	assert.ErrorIs(t, err, backend.ErrUnknownFormat)

	assert.Error(t, execute(t, "render", filepath.Join(dir, "missing.html")))
	assert.Error(t, execute(t, "render"))
}

func TestTooManyPagesTruncates(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.html", twoPages)
	out := filepath.Join(dir, "out.pdf")

	require.NoError(t, execute(t, "render", input, "-o", out, "--max-pages", "1"))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(content, []byte("/Count 1")))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dir", "doc.pdf"), outputPath(filepath.Join("dir", "doc.html"), "", "pdf", false))
	assert.Equal(t, "out.png", outputPath("doc.html", "out.png", "png", false))
	assert.Equal(t, filepath.Join("out", "doc.pdf"), outputPath(filepath.Join("dir", "doc.html"), "out", "pdf", true))

	assert.Equal(t, "out.png", pageFileName("out.png", 0, 1))
	assert.Equal(t, "out-3.png", pageFileName("out.png", 2, 5))
}

func TestDocumentTitle(t *testing.T) {
	root := tree.NewElement("html", nil,
		tree.NewElement("head", nil, tree.NewElement("title", nil, tree.NewText(" My title "))),
		tree.NewElement("body", nil),
	)
	assert.Equal(t, "My title", documentTitle(root))
	assert.Equal(t, "", documentTitle(tree.NewElement("html", nil)))
}
