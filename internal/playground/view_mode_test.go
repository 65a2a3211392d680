package playground

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseViewMode(t *testing.T) {
	tests := map[string]ViewMode{
		"":            ViewTree,
		"ast":         ViewTree,
		"Tree":        ViewTree,
		"frontmatter": ViewMetadata,
		"metadata":    ViewMetadata,
		"html":        ViewHTML,
		"preview":     ViewPreview,
	}
	for in, want := range tests {
		got, err := ParseViewMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseViewMode("pdf")
	assert.Error(t, err)
}

func TestViewModeCycle(t *testing.T) {
	assert.Equal(t, ViewMetadata, ViewTree.Next())
	assert.Equal(t, ViewTree, ViewPreview.Next())
	assert.Equal(t, ViewPreview, ViewTree.Prev())
	assert.Equal(t, "Frontmatter", ViewMetadata.Title())
	assert.Equal(t, "html", ViewHTML.String())
}
