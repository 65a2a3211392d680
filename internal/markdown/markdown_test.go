package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/mdplay/internal/value"
)

func plain() Options { return Options{} }

func findAll(v value.Value, kind string) []*value.Map {
	var out []*value.Map
	var walk func(value.Value)
	walk = func(v value.Value) {
		m, ok := v.(*value.Map)
		if !ok {
			return
		}
		if m.Lookup("kind") == kind {
			out = append(out, m)
		}
		if children, ok := m.Lookup("children").([]any); ok {
			for _, c := range children {
				walk(c)
			}
		}
	}
	walk(v)
	return out
}

func findOne(t *testing.T, v value.Value, kind string) *value.Map {
	t.Helper()
	nodes := findAll(v, kind)
	require.NotEmpty(t, nodes, "no %s node", kind)
	return nodes[0]
}

func childKinds(m *value.Map) []string {
	var kinds []string
	children, _ := m.Lookup("children").([]any)
	for _, c := range children {
		kinds = append(kinds, c.(*value.Map).Lookup("kind").(string))
	}
	return kinds
}

func pos(t *testing.T, m *value.Map, key string) value.Position {
	t.Helper()
	p, ok := value.PositionOf(m.Lookup(key))
	require.True(t, ok, "%s missing on %v", key, m.Lookup("kind"))
	return p
}

func mustParse(t *testing.T, src string, opts Options) *Document {
	t.Helper()
	doc, err := ParseWithOptions(src, opts)
	require.NoError(t, err)
	return doc
}

func mustHTML(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := doc.HTML()
	require.NoError(t, err)
	return out
}

func TestParseFlag(t *testing.T) {
	f, err := ParseFlag("github-flavored")
	require.NoError(t, err)
	assert.Equal(t, FlagGitHubFlavored, f)

	_, err = ParseFlag("nope")
	assert.Error(t, err)
}

func TestWithChangesOnlyOneFlag(t *testing.T) {
	base := DefaultOptions()
	for _, info := range Flags {
		next := base.With(info.Flag, !base.Enabled(info.Flag))
		before, after := base.FlagMap(), next.FlagMap()
		changed := 0
		for k := range before {
			if before[k] != after[k] {
				changed++
				assert.Equal(t, string(info.Flag), k)
			}
		}
		assert.Equal(t, 1, changed, info.Flag)
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.Enabled(FlagGitHubFlavored))
	assert.True(t, o.Enabled(FlagObsidianFlavored))
	assert.True(t, o.Enabled(FlagCJKAutocorrect))
	assert.False(t, o.Enabled(FlagMDXComponent))
	assert.Len(t, Flags, 8)
}

func TestApplyFlagMap(t *testing.T) {
	o, err := Options{}.ApplyFlagMap(map[string]bool{"smart_punctuation": true})
	require.NoError(t, err)
	assert.True(t, o.SmartPunctuation)

	_, err = Options{}.ApplyFlagMap(map[string]bool{"bogus": true})
	assert.Error(t, err)
}

func TestTreeShapeAndPositions(t *testing.T) {
	doc := mustParse(t, "# Title\n\nHello *world*\n", plain())
	root := doc.Tree.(*value.Map)

	assert.Equal(t, "document", root.Lookup("kind"))
	assert.Equal(t, []string{"heading", "paragraph"}, childKinds(root))
	assert.Equal(t, value.Position{Line: 1, Column: 1}, pos(t, root, "start"))

	heading := findOne(t, root, "heading")
	assert.Equal(t, "H1", heading.Lookup("content").(*value.Map).Lookup("level"))
	assert.Equal(t, value.Position{Line: 1, Column: 1}, pos(t, heading, "start"))
	assert.Equal(t, value.Position{Line: 1, Column: 8}, pos(t, heading, "end"))
	assert.Equal(t, "title", heading.Lookup("id"))

	para := findOne(t, root, "paragraph")
	assert.Equal(t, value.Position{Line: 3, Column: 1}, pos(t, para, "start"))
	assert.Equal(t, value.Position{Line: 3, Column: 14}, pos(t, para, "end"))

	em := findOne(t, root, "emphasis")
	assert.Equal(t, value.Position{Line: 3, Column: 7}, pos(t, em, "start"))
	assert.Equal(t, value.Position{Line: 3, Column: 14}, pos(t, em, "end"))
	assert.Equal(t, []string{"text"}, childKinds(em))
	assert.Equal(t, "world", findOne(t, em, "text").Lookup("content"))
}

func TestNodeKeyOrder(t *testing.T) {
	doc := mustParse(t, "# Title\n", plain())
	heading := findOne(t, doc.Tree, "heading")
	assert.Equal(t, []string{"kind", "id", "content", "start", "end", "children"}, heading.Keys())
}

func TestColumnsCountRunes(t *testing.T) {
	doc := mustParse(t, "中文\n", plain())
	text := findOne(t, doc.Tree, "text")
	assert.Equal(t, value.Position{Line: 1, Column: 3}, pos(t, text, "end"))
}

func TestSoftAndHardBreaks(t *testing.T) {
	doc := mustParse(t, "a\nb  \nc\n", plain())
	para := findOne(t, doc.Tree, "paragraph")
	assert.Equal(t, []string{"text", "soft-break", "text", "hard-break", "text"}, childKinds(para))
}

func TestFencedCodeSpan(t *testing.T) {
	doc := mustParse(t, "```go\nx\n```\n", plain())
	code := findOne(t, doc.Tree, "code")
	content := code.Lookup("content").(*value.Map)
	assert.Equal(t, "fenced", content.Lookup("variant"))
	assert.Equal(t, "go", content.Lookup("language"))
	assert.Equal(t, value.Position{Line: 1, Column: 1}, pos(t, code, "start"))
	assert.Equal(t, value.Position{Line: 3, Column: 4}, pos(t, code, "end"))
}

func TestLists(t *testing.T) {
	doc := mustParse(t, "- a\n- b\n", plain())
	list := findOne(t, doc.Tree, "list")
	content := list.Lookup("content").(*value.Map)
	assert.Equal(t, "bullet", content.Lookup("variant"))
	assert.Equal(t, true, content.Lookup("tight"))
	item := findOne(t, list, "list-item")
	assert.Equal(t, value.Position{Line: 1, Column: 1}, pos(t, item, "start"))
	assert.True(t, value.IsUndefined(item.Lookup("content").(*value.Map).Lookup("start")))

	doc = mustParse(t, "3. x\n4. y\n", plain())
	list = findOne(t, doc.Tree, "list")
	assert.Equal(t, 3, list.Lookup("content").(*value.Map).Lookup("start"))
	items := findAll(list, "list-item")
	require.Len(t, items, 2)
	assert.Equal(t, 4, items[1].Lookup("content").(*value.Map).Lookup("start"))
}

func TestTaskList(t *testing.T) {
	doc := mustParse(t, "- [ ] a\n- [x] b\n", Options{GitHubFlavored: true})
	list := findOne(t, doc.Tree, "list")
	assert.Equal(t, "task", list.Lookup("content").(*value.Map).Lookup("variant"))
	items := findAll(list, "list-item")
	require.Len(t, items, 2)
	assert.Equal(t, " ", items[0].Lookup("content").(*value.Map).Lookup("task"))
	assert.Equal(t, "x", items[1].Lookup("content").(*value.Map).Lookup("task"))
}

func TestFrontmatter(t *testing.T) {
	src := "---\ntitle: Hi\ntags:\n  - a\n---\n# H\n"
	doc := mustParse(t, src, plain())
	require.NotNil(t, doc.Frontmatter)
	assert.Equal(t, "title", doc.Frontmatter[0].Key)

	root := doc.Tree.(*value.Map)
	assert.Equal(t, []string{"frontmatter", "heading"}, childKinds(root))
	fm := findOne(t, root, "frontmatter")
	content := fm.Lookup("content").(*value.Map)
	assert.Equal(t, []string{"title", "tags"}, content.Keys())
	assert.Equal(t, value.Position{Line: 1, Column: 1}, pos(t, fm, "start"))
	assert.Equal(t, value.Position{Line: 5, Column: 4}, pos(t, fm, "end"))

	heading := findOne(t, root, "heading")
	assert.Equal(t, value.Position{Line: 6, Column: 1}, pos(t, heading, "start"))
}

func TestNoFrontmatter(t *testing.T) {
	doc := mustParse(t, "plain\n", plain())
	assert.Nil(t, doc.Frontmatter)
	assert.Empty(t, findAll(doc.Tree, "frontmatter"))
}

func TestMalformedFrontmatterIsNoMetadata(t *testing.T) {
	doc := mustParse(t, "---\ntitle: [unclosed\n---\nbody\n", plain())
	assert.Nil(t, doc.Frontmatter)
}

func TestHTML(t *testing.T) {
	doc := mustParse(t, "**bold**\n", plain())
	assert.Equal(t, "<p><strong>bold</strong></p>\n", mustHTML(t, doc))
}

func TestGitHubFlavoredTables(t *testing.T) {
	src := "| a |\n|---|\n| b |\n"
	assert.Contains(t, mustHTML(t, mustParse(t, src, Options{GitHubFlavored: true})), "<table>")
	assert.NotContains(t, mustHTML(t, mustParse(t, src, plain())), "<table>")

	doc := mustParse(t, src, Options{GitHubFlavored: true})
	table := findOne(t, doc.Tree, "table")
	assert.Equal(t, []string{"table-head", "table-body"}, childKinds(table))
	assert.Equal(t, 1, table.Lookup("content").(*value.Map).Lookup("column"))
	assert.NotEmpty(t, findAll(table, "table-head-col"))
	assert.NotEmpty(t, findAll(table, "table-data-col"))
}

func TestObsidianTagsAndWikilinks(t *testing.T) {
	doc := mustParse(t, "hello #tag and #tag #other see [[Page]]\n", Options{ObsidianFlavored: true})
	assert.Equal(t, []string{"tag", "other"}, doc.Tags)

	tag := findOne(t, doc.Tree, "tag")
	assert.Equal(t, "tag", tag.Lookup("content"))

	var wiki *value.Map
	for _, link := range findAll(doc.Tree, "link") {
		if link.Lookup("content").(*value.Map).Lookup("variant") == "wikilink" {
			wiki = link
		}
	}
	require.NotNil(t, wiki)
	assert.Equal(t, "Page", wiki.Lookup("content").(*value.Map).Lookup("path"))

	plainDoc := mustParse(t, "hello #tag\n", plain())
	assert.Empty(t, plainDoc.Tags)
}

func TestCJKAutocorrect(t *testing.T) {
	doc := mustParse(t, "在LeanCloud上\n", Options{CJKAutocorrect: true})
	assert.Equal(t, "<p>在 LeanCloud 上</p>\n", mustHTML(t, doc))
	assert.Equal(t, "在 LeanCloud 上", findOne(t, doc.Tree, "text").Lookup("content"))

	doc = mustParse(t, "在LeanCloud上\n", plain())
	assert.Equal(t, "<p>在LeanCloud上</p>\n", mustHTML(t, doc))
}

func TestCJKAutocorrectLeavesCodeAlone(t *testing.T) {
	doc := mustParse(t, "`在A上`\n", Options{CJKAutocorrect: true})
	assert.Equal(t, "<p><code>在A上</code></p>\n", mustHTML(t, doc))
}

func TestCJKNouns(t *testing.T) {
	doc := mustParse(t, "我用豆瓣FM聽歌\n", Options{CJKAutocorrect: true, CJKNouns: []string{"豆瓣FM"}})
	assert.Equal(t, "<p>我用豆瓣FM聽歌</p>\n", mustHTML(t, doc))

	src := "---\nnouns:\n  - 豆瓣FM\n---\n我用豆瓣FM聽歌\n"
	doc = mustParse(t, src, Options{CJKAutocorrect: true, CJKNounsFromFrontmatter: "nouns"})
	assert.Equal(t, "<p>我用豆瓣FM聽歌</p>\n", mustHTML(t, doc))
}

func TestNormalizeChinesePunctuation(t *testing.T) {
	doc := mustParse(t, "你好,世界\n", Options{NormalizeChinesePunctuation: true})
	assert.Equal(t, "<p>你好，世界</p>\n", mustHTML(t, doc))
}

func TestSmartPunctuation(t *testing.T) {
	doc := mustParse(t, "\"hi\"\n", Options{SmartPunctuation: true})
	assert.Contains(t, mustHTML(t, doc), "&ldquo;hi&rdquo;")
}

func TestGFMExtendedAutolink(t *testing.T) {
	src := "see www.example.com\n"
	assert.Contains(t, mustHTML(t, mustParse(t, src, Options{GFMExtendedAutolink: true})),
		`<a href="http://www.example.com">www.example.com</a>`)
	assert.NotContains(t, mustHTML(t, mustParse(t, src, plain())), "<a ")
}

func TestCJKFriendlyDelimiters(t *testing.T) {
	for _, autocorrect := range []bool{false, true} {
		on := Options{CJKFriendlyDelimiters: true, CJKAutocorrect: autocorrect}
		assert.Equal(t, "<p>中文中文</p>\n", mustHTML(t, mustParse(t, "中文\n中文\n", on)), "autocorrect=%v", autocorrect)
		assert.Equal(t, "<p>abc\ndef</p>\n", mustHTML(t, mustParse(t, "abc\ndef\n", on)), "autocorrect=%v", autocorrect)

		off := Options{CJKAutocorrect: autocorrect}
		assert.Equal(t, "<p>中文\n中文</p>\n", mustHTML(t, mustParse(t, "中文\n中文\n", off)), "autocorrect=%v", autocorrect)
	}
}

func TestMDXComponentPassesRawHTML(t *testing.T) {
	src := "<div>x</div>\n"
	assert.Contains(t, mustHTML(t, mustParse(t, src, plain())), "raw HTML omitted")
	assert.Equal(t, "<div>x</div>\n", mustHTML(t, mustParse(t, src, Options{MDXComponent: true})))
}

func TestLimits(t *testing.T) {
	_, err := ParseWithOptions(strings.Repeat("a", 20), Options{MaxInputBytes: 10})
	assert.True(t, errors.Is(err, ErrInputTooLarge))

	_, err = ParseWithOptions("# a\n\nb\n", Options{MaxNodes: 2})
	assert.True(t, errors.Is(err, ErrTooManyNodes))

	_, err = ParseWithOptions("# a\n", Options{MaxNodes: 100})
	assert.NoError(t, err)
}

func TestParseUsesDefaultOptions(t *testing.T) {
	doc, err := Parse("#tag\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"tag"}, doc.Tags)
}
