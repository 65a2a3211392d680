package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/mdplay/internal/markdown"
	"github.com/oakwood-commons/mdplay/internal/playground"
)

func snapshotConfig() Config {
	return Config{
		Text:             playground.DefaultInput,
		Options:          markdown.DefaultOptions(),
		NoColor:          true,
		HighlightEnabled: true,
		LineNumbers:      true,
	}
}

func TestRenderSnapshotSize(t *testing.T) {
	out := RenderSnapshot(snapshotConfig(), SnapshotConfig{Width: 100, Height: 30})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 30)
	assert.Contains(t, lines[0], "mdplay")
	assert.Contains(t, lines[0], "1 AST")
	assert.NotContains(t, out, "\x1b[", "no-color snapshots carry no escape codes")
}

func TestRenderSnapshotHTMLView(t *testing.T) {
	out := RenderSnapshot(snapshotConfig(), SnapshotConfig{Width: 100, Height: 30, StartKeys: []string{"<F4>"}})
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "─ HTML ")
}

func TestRenderSnapshotMetadataView(t *testing.T) {
	out := RenderSnapshot(snapshotConfig(), SnapshotConfig{Width: 100, Height: 30, StartKeys: []string{"<F3>"}})
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "Demo User")

	cfg := snapshotConfig()
	cfg.Text = "# no meta"
	out = RenderSnapshot(cfg, SnapshotConfig{Width: 100, Height: 30, StartKeys: []string{"<F3>"}})
	assert.Contains(t, out, NoFrontmatter)
}

func TestRenderSnapshotDefaultsSize(t *testing.T) {
	out := RenderSnapshot(snapshotConfig(), SnapshotConfig{})
	assert.Len(t, strings.Split(out, "\n"), 24)
}
