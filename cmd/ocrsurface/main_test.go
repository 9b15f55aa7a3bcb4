package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrsurface/pkg/hocr"
	"github.com/gardar/ocrsurface/pkg/textlayout"
)

const pageHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><meta http-equiv="Content-Type" content="text/html;charset=utf-8" /></head>
<body>
<div class="ocr_page" id="page_1" title="bbox 0 0 400 100; ppageno 0">
 <div class="ocr_carea" id="block_1_1" title="bbox 0 0 200 60">
  <span class="ocr_line" id="line_1_1" title="bbox 0 0 200 20">
   <span class="ocrx_word" id="word_1_1" title="bbox 0 0 90 20">Hello</span>
   <span class="ocrx_word" id="word_1_2" title="bbox 110 0 200 20">World</span>
  </span>
  <span class="ocr_line" id="line_1_2" title="bbox 0 40 200 60">
   <span class="ocrx_word" id="word_1_3" title="bbox 0 40 90 60">Foo</span>
   <span class="ocrx_word" id="word_1_4" title="bbox 110 40 200 60">Bar</span>
  </span>
 </div>
</div>
</body>
</html>`

const dragScript = `
viewport: {min_x: 0, min_y: 0, max_x: 400, max_y: 100, cursor_size: 24}
gestures:
  - {kind: press, x: 150, y: 10, at: 0s}
  - {kind: release, x: 150, y: 10, at: 10ms}
  - {kind: press, x: 205, y: 25, at: 1s}
  - {kind: move, x: 55, y: 55, at: 1100ms}
  - {kind: move, x: 155, y: 55, at: 1150ms}
  - {kind: release, x: 155, y: 55, at: 1300ms}
`

func setup(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"GOOGLE_APPLICATION_CREDENTIALS", "OCRSURFACE_PROVIDER", "OCRSURFACE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	files := map[string]string{
		"page.hocr":  pageHOCR,
		"drag.yml":   dragScript,
		"config.yml": "selection:\n  select_all_on_first_press: false\nlog:\n  level: error\n",
		"broken.yml": "log:\n  format: xml\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestLayoutCommand(t *testing.T) {
	dir := setup(t)
	hocrOut := filepath.Join(dir, "out.hocr")

	out, err := run(t, "--config", filepath.Join(dir, "config.yml"),
		"layout", filepath.Join(dir, "page.hocr"), "--hocr", hocrOut)
	require.NoError(t, err)

	var layout textlayout.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	assert.Equal(t, 400, layout.ImageWidth)
	assert.Equal(t, "Hello World\nFoo Bar", layout.Text())

	data, err := os.ReadFile(hocrOut)
	require.NoError(t, err)
	doc, err := hocr.ParseHOCR(data)
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nFoo Bar", doc.Text())
}

func TestLayoutCommandViewWidth(t *testing.T) {
	dir := setup(t)
	jsonOut := filepath.Join(dir, "layout.json")

	_, err := run(t, "--config", filepath.Join(dir, "config.yml"),
		"layout", filepath.Join(dir, "page.hocr"), "--json", jsonOut, "--view-width", "200")
	require.NoError(t, err)

	data, err := os.ReadFile(jsonOut)
	require.NoError(t, err)
	var layout textlayout.Layout
	require.NoError(t, json.Unmarshal(data, &layout))
	require.Len(t, layout.Lines, 2)
	assert.InDelta(t, 100, layout.Lines[0].Box.C.X, 1e-6)
}

func TestSelectCommand(t *testing.T) {
	dir := setup(t)
	pngOut := filepath.Join(dir, "overlay.png")

	out, err := run(t, "--config", filepath.Join(dir, "config.yml"),
		"select", filepath.Join(dir, "page.hocr"), "--script", filepath.Join(dir, "drag.yml"), "--png", pngOut)
	require.NoError(t, err)
	assert.Equal(t, "World\nFoo Bar\n", out)

	data, err := os.ReadFile(pngOut)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestCommandErrors(t *testing.T) {
	dir := setup(t)
	page := filepath.Join(dir, "page.hocr")

	_, err := run(t, "--config", filepath.Join(dir, "broken.yml"), "layout", page)
	assert.ErrorContains(t, err, "log.format")

	_, err = run(t, "--provider", "magic", "layout", page)
	assert.ErrorContains(t, err, "unknown ocr.provider")

	_, err = run(t, "--log-level", "error", "select", page)
	assert.ErrorContains(t, err, "script")

	_, err = run(t, "--log-level", "error", "select", page, "--script", filepath.Join(dir, "drag.yml"), "--pdf", filepath.Join(dir, "out.pdf"))
	assert.ErrorContains(t, err, "--image or --source-pdf")

	_, err = run(t, "--log-level", "error", "layout", filepath.Join(dir, "missing.hocr"))
	assert.ErrorContains(t, err, "failed to read input")
}
