package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/options"
)

func testGlobal(stdin string) (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return &Global{
		Stdin:   strings.NewReader(stdin),
		Stdout:  &out,
		Stderr:  &bytes.Buffer{},
		Context: context.Background(),
	}, &out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRenderToStdout(t *testing.T) {
	t.Chdir(t.TempDir())
	g, out := testGlobal("# Title\n\nHello *world*\n")

	cmd := &RenderCmd{Files: []string{stdinName}}
	require.NoError(t, cmd.Run(g, &CLI{}))

	assert.Contains(t, out.String(), "<h1>Title</h1>")
	assert.Contains(t, out.String(), "<p>Hello <em>world</em></p>")
}

func TestRenderToDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "a.md"), "| a |\n|---|\n| b |\n")

	g, out := testGlobal("")
	cmd := &RenderCmd{
		RenderFlags: RenderFlags{Ext: []string{"tables"}},
		Output:      "out",
		Files:       []string{"a.md"},
	}
	require.NoError(t, cmd.Run(g, &CLI{}))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(filepath.Join(dir, "out", "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<table>")
}

func TestRenderFrontMatterFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	g, out := testGlobal("---\ntitle: Doc\n---\ntext\n")

	on := true
	cmd := &RenderCmd{RenderFlags: RenderFlags{FrontMatter: &on}, Files: []string{stdinName}}
	require.NoError(t, cmd.Run(g, &CLI{}))

	assert.True(t, strings.HasPrefix(out.String(), "---\n"))
	assert.Contains(t, out.String(), "title: Doc")
	assert.Contains(t, out.String(), "<p>text</p>")
}

func TestRenderMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	g, _ := testGlobal("")

	err := (&RenderCmd{Files: []string{"missing.md"}}).Run(g, &CLI{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestRenderUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, DefaultConfigFile), "renderer: toc\n")

	g, out := testGlobal("# One\n\n## Two\n")
	require.NoError(t, (&RenderCmd{Files: []string{stdinName}}).Run(g, &CLI{}))

	assert.Contains(t, out.String(), "<ul>")
	assert.NotContains(t, out.String(), "<h1>")
}

func TestLinksNative(t *testing.T) {
	t.Chdir(t.TempDir())
	g, out := testGlobal("See [docs](/docs \"Docs\") and ![img](y.png).\n")

	require.NoError(t, (&LinksCmd{File: stdinName, JSON: true}).Run(g, &CLI{}))

	var got []linkJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []linkJSON{
		{Kind: "link", Destination: "/docs", Title: "Docs"},
		{Kind: "image", Destination: "y.png"},
	}, got)
}

func TestLinksCommonMarkTable(t *testing.T) {
	t.Chdir(t.TempDir())
	g, out := testGlobal("---\ntitle: x\n---\n[a](/x) ![b](y.png)\n")

	require.NoError(t, (&LinksCmd{File: stdinName, CommonMark: true}).Run(g, &CLI{}))

	assert.Equal(t, "link   /x\nimage  y.png\n", out.String())
}

func TestLinksCommonMarkFrontMatterOptions(t *testing.T) {
	t.Chdir(t.TempDir())
	g, out := testGlobal("---\nmarkdown:\n  autolink: true\n---\nsee https://example.com\n")

	require.NoError(t, (&LinksCmd{File: stdinName, CommonMark: true, JSON: true}).Run(g, &CLI{}))

	var got []linkJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com", got[0].Destination)
}

func TestFlagsCommand(t *testing.T) {
	g, out := testGlobal("")
	require.NoError(t, FlagsCmd{}.Run(g, &CLI{}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(options.Known())+2)
	assert.True(t, strings.HasPrefix(lines[0], "FLAG"))
	assert.Contains(t, out.String(), "tables")
	assert.Contains(t, out.String(), "render")
	assert.Contains(t, lines[len(lines)-1], "reference_labels")
	assert.Contains(t, lines[len(lines)-1], "commonmark")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mdrender.yaml")
	g, out := testGlobal("")

	require.NoError(t, (&InitCmd{Path: path}).Run(g, &CLI{}))
	assert.Equal(t, "Wrote "+path+"\n", out.String())
	assert.FileExists(t, path)

	err := (&InitCmd{Path: path}).Run(g, &CLI{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, (&InitCmd{Path: path, Force: true}).Run(g, &CLI{}))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name                  string
		path, root, outDir, x string
		want                  string
	}{
		{name: "next to source", path: "docs/a.md", x: ".html", want: "docs/a.html"},
		{name: "mirrored", path: "docs/sub/a.md", root: "docs", outDir: "out", x: ".html", want: filepath.Join("out", "sub", "a.html")},
		{name: "outside root", path: "/elsewhere/a.md", root: "docs", outDir: "out", x: ".htm", want: filepath.Join("out", "a.htm")},
		{name: "stdin", path: stdinName, outDir: "out", x: ".html", want: filepath.Join("out", "stdin.html")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.path, tt.root, tt.outDir, tt.x))
		})
	}
}

func TestRenderFlagsOptions(t *testing.T) {
	base := options.Of(options.Tables)

	set, err := RenderFlags{}.options(base)
	require.NoError(t, err)
	assert.True(t, set.Equal(base))

	set, err = RenderFlags{Ext: []string{"footnotes"}, NoExt: []string{"tables"}}.options(base)
	require.NoError(t, err)
	assert.True(t, set.Enabled(options.Footnotes))
	assert.False(t, set.Enabled(options.Tables))

	_, err = RenderFlags{Ext: []string{"tables"}, NoExt: []string{"tables"}}.options(base)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = RenderFlags{Ext: []string{"bogus"}}.options(base)
	require.Error(t, err)
}

func TestKongParsesCommands(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"render", "-r", "toc", "--ext", "tables,footnotes", "a.md", "b.md"})
	require.NoError(t, err)
	assert.Equal(t, "toc", cli.Render.Renderer)
	assert.Equal(t, []string{"tables", "footnotes"}, cli.Render.Ext)
	assert.Equal(t, []string{"a.md", "b.md"}, cli.Render.Files)

	ctx, err := parser.Parse([]string{"links", "--commonmark", "--json", "doc.md"})
	require.NoError(t, err)
	assert.Equal(t, "links <file>", ctx.Command())
	assert.True(t, cli.Links.CommonMark)
}

func TestMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.MARKDOWN"), "b")
	writeFile(t, filepath.Join(dir, "notes.txt"), "c")
	writeFile(t, filepath.Join(dir, ".git", "c.md"), "d")
	writeFile(t, filepath.Join(dir, ".hidden.md"), "e")

	paths, err := markdownFiles(dir, config.WatchConfig{Extensions: []string{".md", ".markdown"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "sub", "b.MARKDOWN"),
	}, paths)

	_, err = markdownFiles(filepath.Join(dir, "missing"), config.WatchConfig{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}
