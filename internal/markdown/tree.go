package markdown

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"go.abhg.dev/goldmark/hashtag"
	"go.abhg.dev/goldmark/wikilink"

	"github.com/oakwood-commons/mdplay/internal/value"
)

var thematicBreakRe = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)

// treeBuilder converts a goldmark AST into the Displayable Value tree. Each
// node is a mapping {kind, id?, content?, start, end, children}.
type treeBuilder struct {
	src       []byte
	ix        *lineIndex
	transform textTransform
	maxNodes  int
	count     int
	spans     map[ast.Node]span

	front *frontmatterBlock
	tags  []string
	seen  map[string]bool
}

func newTreeBuilder(src []byte, transform textTransform, maxNodes int, front *frontmatterBlock) *treeBuilder {
	return &treeBuilder{
		src:       src,
		ix:        newLineIndex(src),
		transform: transform,
		maxNodes:  maxNodes,
		spans:     map[ast.Node]span{},
		front:     front,
		seen:      map[string]bool{},
	}
}

func (b *treeBuilder) build(doc ast.Node) (*value.Map, error) {
	root, err := b.newNode("document", doc, value.Undefined, b.spanOf(doc))
	if err != nil {
		return nil, err
	}
	var children []any
	if b.front != nil {
		fm, err := b.newNode("frontmatter", nil, b.front.content, span{start: 0, stop: b.front.stop, ok: true})
		if err != nil {
			return nil, err
		}
		fm.Set("children", []any{})
		children = append(children, fm)
	}
	rest, err := b.children(doc)
	if err != nil {
		return nil, err
	}
	root.Set("children", append(children, rest...))
	return root, nil
}

func (b *treeBuilder) newNode(kind string, n ast.Node, content value.Value, s span) (*value.Map, error) {
	b.count++
	if b.maxNodes > 0 && b.count > b.maxNodes {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyNodes, b.maxNodes)
	}
	m := value.NewMap()
	m.Set("kind", kind)
	if n != nil {
		if id, ok := n.AttributeString("id"); ok {
			switch v := id.(type) {
			case []byte:
				m.Set("id", string(v))
			case string:
				m.Set("id", v)
			}
		}
	}
	if !value.IsUndefined(content) {
		m.Set("content", content)
	}
	if s.ok {
		m.Set("start", b.ix.position(s.start).Map())
		m.Set("end", b.ix.position(s.stop).Map())
	}
	return m, nil
}

func (b *treeBuilder) children(n ast.Node) ([]any, error) {
	out := []any{}
	var err error
	if tbl, ok := n.(*east.Table); ok {
		return b.tableChildren(tbl)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if out, err = b.appendNode(out, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// tableChildren groups body rows under a synthetic table-body node.
func (b *treeBuilder) tableChildren(tbl *east.Table) ([]any, error) {
	out := []any{}
	var rows []ast.Node
	var err error
	for c := tbl.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() == east.KindTableRow {
			rows = append(rows, c)
			continue
		}
		if out, err = b.appendNode(out, c); err != nil {
			return nil, err
		}
	}
	if len(rows) == 0 {
		return out, nil
	}
	var s span
	for _, r := range rows {
		s = s.union(b.spanOf(r))
	}
	body, err := b.newNode("table-body", nil, value.Undefined, s)
	if err != nil {
		return nil, err
	}
	bodyChildren := []any{}
	for _, r := range rows {
		if bodyChildren, err = b.appendNode(bodyChildren, r); err != nil {
			return nil, err
		}
	}
	body.Set("children", bodyChildren)
	return append(out, body), nil
}

func (b *treeBuilder) appendNode(dst []any, n ast.Node) ([]any, error) {
	if n.Kind() == east.KindTaskCheckBox {
		return dst, nil
	}
	if ht, ok := n.(*hashtag.Node); ok {
		b.addTag(string(ht.Tag))
	}

	node, err := b.newNode(b.kindOf(n), n, b.contentOf(n), b.spanOf(n))
	if err != nil {
		return nil, err
	}
	children, err := b.children(n)
	if err != nil {
		return nil, err
	}
	node.Set("children", children)
	dst = append(dst, node)

	if t, ok := n.(*ast.Text); ok && (t.SoftLineBreak() || t.HardLineBreak()) {
		kind := "soft-break"
		if t.HardLineBreak() {
			kind = "hard-break"
		}
		end, _ := b.ix.nextLineStart(t.Segment.Stop)
		br, err := b.newNode(kind, nil, value.Undefined, span{start: t.Segment.Stop, stop: end, ok: true})
		if err != nil {
			return nil, err
		}
		br.Set("children", []any{})
		dst = append(dst, br)
	}
	return dst, nil
}

func (b *treeBuilder) addTag(tag string) {
	if tag == "" || b.seen[tag] {
		return
	}
	b.seen[tag] = true
	b.tags = append(b.tags, tag)
}

func (b *treeBuilder) kindOf(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Document:
		return "document"
	case *ast.Paragraph, *ast.TextBlock:
		return "paragraph"
	case *ast.Heading:
		return "heading"
	case *ast.ThematicBreak:
		return "thematic-break"
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.CodeSpan:
		return "code"
	case *ast.Blockquote:
		return "block-quote"
	case *ast.List:
		return "list"
	case *ast.ListItem:
		return "list-item"
	case *ast.HTMLBlock, *ast.RawHTML:
		return "html"
	case *ast.Text, *ast.String:
		return "text"
	case *ast.Emphasis:
		if t.Level >= 2 {
			return "strong"
		}
		return "emphasis"
	case *ast.Link, *ast.AutoLink:
		return "link"
	case *ast.Image:
		return "image"
	case *east.Table:
		return "table"
	case *east.TableHeader:
		return "table-head"
	case *east.TableRow:
		return "table-row"
	case *east.TableCell:
		if _, ok := t.Parent().(*east.TableHeader); ok {
			return "table-head-col"
		}
		return "table-data-col"
	case *east.Strikethrough:
		return "strikethrough"
	case *wikilink.Node:
		if t.Embed {
			return "embed"
		}
		return "link"
	case *hashtag.Node:
		return "tag"
	}
	return kebab(n.Kind().String())
}

// kebab turns a goldmark kind name such as "DefinitionList" into
// "definition-list".
func kebab(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *treeBuilder) contentOf(n ast.Node) value.Value {
	switch t := n.(type) {
	case *ast.Text:
		s := string(t.Segment.Value(b.src))
		if b.transform != nil && !t.IsRaw() && !insideCode(n) {
			s = b.transform(s)
		}
		return s
	case *ast.String:
		return html.UnescapeString(string(t.Value))
	case *ast.Heading:
		return value.MapOf("level", fmt.Sprintf("H%d", t.Level))
	case *ast.List:
		return b.listContent(t)
	case *ast.ListItem:
		return b.listItemContent(t)
	case *ast.Image:
		return value.MapOf("url", string(t.Destination), "title", optional(t.Title))
	case *ast.Link:
		return value.MapOf("variant", "default", "url", string(t.Destination), "title", optional(t.Title))
	case *ast.AutoLink:
		return value.MapOf("variant", "default", "url", string(t.URL(b.src)), "title", value.Undefined)
	case *wikilink.Node:
		if t.Embed {
			return value.MapOf(
				"path", string(t.Target),
				"size", value.Undefined,
				"reference", reference(t.Fragment),
				"attrs", value.Undefined,
			)
		}
		label := b.plainText(t)
		var text value.Value = value.Undefined
		if label != "" && label != string(t.Target) {
			text = label
		}
		return value.MapOf("variant", "wikilink", "path", string(t.Target), "text", text, "reference", reference(t.Fragment))
	case *hashtag.Node:
		return string(t.Tag)
	case *ast.CodeSpan:
		return value.MapOf("variant", "inline")
	case *ast.CodeBlock:
		return value.MapOf("variant", "indent")
	case *ast.FencedCodeBlock:
		var lang value.Value = value.Undefined
		if l := t.Language(b.src); len(l) > 0 {
			lang = string(l)
		}
		return value.MapOf("variant", "fenced", "language", lang)
	case *ast.HTMLBlock:
		return value.MapOf("variant", "block")
	case *ast.RawHTML:
		return value.MapOf("variant", "inline")
	case *east.Table:
		aligns := make([]any, len(t.Alignments))
		for i, a := range t.Alignments {
			aligns[i] = alignmentName(a)
		}
		return value.MapOf("column", len(t.Alignments), "alignments", aligns)
	}
	return value.Undefined
}

func (b *treeBuilder) listContent(l *ast.List) value.Value {
	tight := l.IsTight
	if l.IsOrdered() {
		return value.MapOf("variant", "ordered", "tight", tight, "start", l.Start)
	}
	if isTaskList(l) {
		return value.MapOf("variant", "task", "tight", tight)
	}
	return value.MapOf("variant", "bullet", "tight", tight)
}

func (b *treeBuilder) listItemContent(item *ast.ListItem) value.Value {
	var start, task value.Value = value.Undefined, value.Undefined
	if l, ok := item.Parent().(*ast.List); ok {
		if l.IsOrdered() {
			idx := 0
			for c := l.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
				idx++
			}
			start = l.Start + idx
		} else if isTaskList(l) {
			task = " "
			if cb := taskCheckBox(item); cb != nil && cb.IsChecked {
				task = "x"
			}
		}
	}
	return value.MapOf("start", start, "task", task)
}

func isTaskList(l *ast.List) bool {
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		if item, ok := c.(*ast.ListItem); ok && taskCheckBox(item) != nil {
			return true
		}
	}
	return false
}

func taskCheckBox(item *ast.ListItem) *east.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	cb, _ := first.FirstChild().(*east.TaskCheckBox)
	return cb
}

func insideCode(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindCodeSpan {
			return true
		}
	}
	return false
}

// plainText concatenates the text segments under n.
func (b *treeBuilder) plainText(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(b.src))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func optional(b []byte) value.Value {
	if len(b) == 0 {
		return value.Undefined
	}
	return string(b)
}

// reference classifies a wikilink fragment: "^id" is a block reference,
// "a#b" a heading path, anything else a single heading.
func reference(fragment []byte) value.Value {
	if len(fragment) == 0 {
		return value.Undefined
	}
	f := string(fragment)
	switch {
	case strings.HasPrefix(f, "^"):
		return value.MapOf("variant", "block-id", "value", strings.TrimPrefix(f, "^"))
	case strings.Contains(f, "#"):
		parts := strings.Split(f, "#")
		seq := make([]any, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				seq = append(seq, p)
			}
		}
		return value.MapOf("variant", "multi-heading", "value", seq)
	default:
		return value.MapOf("variant", "heading", "value", f)
	}
}

func alignmentName(a east.Alignment) string {
	switch a {
	case east.AlignCenter:
		return "center"
	case east.AlignRight:
		return "right"
	default:
		return "left"
	}
}

// spanOf returns the source range covered by n, memoized.
func (b *treeBuilder) spanOf(n ast.Node) span {
	if s, ok := b.spans[n]; ok {
		return s
	}
	s := b.computeSpan(n)
	b.spans[n] = s
	return s
}

func (b *treeBuilder) computeSpan(n ast.Node) span {
	switch t := n.(type) {
	case *ast.Document:
		return span{start: 0, stop: len(b.src), ok: true}
	case *ast.Text:
		return span{start: t.Segment.Start, stop: t.Segment.Stop, ok: true}
	case *ast.RawHTML:
		if t.Segments.Len() == 0 {
			return span{}
		}
		return span{start: t.Segments.At(0).Start, stop: t.Segments.At(t.Segments.Len() - 1).Stop, ok: true}
	case *ast.Heading:
		return b.headingSpan(t)
	case *ast.FencedCodeBlock:
		return b.fencedSpan(t)
	case *ast.ThematicBreak:
		return b.thematicBreakSpan(t)
	case *ast.AutoLink:
		return b.autoLinkSpan(t)
	}

	s := b.linesSpan(n)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		s = s.union(b.spanOf(c))
	}

	switch t := n.(type) {
	case *ast.ListItem:
		if s.ok {
			s.start = b.ix.extendBack(s.start, isListMarkerByte)
		}
	case *ast.Blockquote:
		if s.ok {
			s.start = b.ix.extendBack(s.start, func(c byte) bool { return c == ' ' || c == '\t' || c == '>' })
		}
	case *ast.Emphasis:
		if s.ok {
			s = b.wrapDelims(s, t.Level, "*_")
		}
	case *east.Strikethrough:
		if s.ok {
			s = b.wrapDelims(s, 2, "~")
		}
	case *ast.CodeSpan:
		if s.ok {
			s = b.codeSpanSpan(s)
		}
	case *ast.Link:
		if s.ok {
			s = b.linkSpan(s, false)
		}
	case *ast.Image:
		if s.ok {
			s = b.linkSpan(s, true)
		}
	case *wikilink.Node:
		if !s.ok {
			s = b.search(n, append([]byte("[["), t.Target...))
		}
		if s.ok {
			s = b.wikiSpan(s, t.Embed)
		}
	case *hashtag.Node:
		if s.ok && s.start > 0 && b.src[s.start-1] == '#' {
			s.start--
		} else if !s.ok {
			s = b.search(n, append([]byte{'#'}, t.Tag...))
		}
	}
	return s
}

func (b *treeBuilder) linesSpan(n ast.Node) span {
	if n.Type() != ast.TypeBlock {
		return span{}
	}
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return span{}
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	return span{start: first.Start, stop: b.ix.trimNewline(first.Start, last.Stop), ok: true}
}

func (b *treeBuilder) headingSpan(h *ast.Heading) span {
	s := b.linesSpan(h)
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		s = s.union(b.spanOf(c))
	}
	if !s.ok {
		return s
	}
	lineStart := b.ix.firstNonSpace(b.ix.lineStart(s.start))
	if lineStart < len(b.src) && b.src[lineStart] == '#' {
		return span{start: lineStart, stop: b.ix.lineEnd(s.stop), ok: true}
	}
	if next, ok := b.ix.nextLineStart(s.stop); ok {
		return span{start: lineStart, stop: b.ix.lineEnd(next), ok: true}
	}
	return span{start: lineStart, stop: s.stop, ok: true}
}

func (b *treeBuilder) fencedSpan(f *ast.FencedCodeBlock) span {
	fence := -1
	lines := f.Lines()
	switch {
	case f.Info != nil:
		fence = b.ix.lineStart(f.Info.Segment.Start)
	case lines.Len() > 0:
		if ls := b.ix.lineStart(lines.At(0).Start); ls > 0 {
			fence = b.ix.lineStart(ls - 1)
		}
	}
	if fence < 0 {
		return span{}
	}
	start := b.ix.firstNonSpace(fence)

	var contentEnd int
	if lines.Len() > 0 {
		contentEnd = lines.At(lines.Len() - 1).Stop
		if contentEnd > 0 && b.src[contentEnd-1] != '\n' {
			contentEnd, _ = b.ix.nextLineStart(contentEnd)
		}
	} else {
		contentEnd, _ = b.ix.nextLineStart(fence)
	}
	stop := b.ix.trimNewline(start, contentEnd)
	if contentEnd < len(b.src) {
		cl := b.ix.firstNonSpace(contentEnd)
		rest := b.src[cl:]
		if bytes.HasPrefix(rest, []byte("```")) || bytes.HasPrefix(rest, []byte("~~~")) {
			stop = b.ix.lineEnd(cl)
		}
	}
	return span{start: start, stop: stop, ok: true}
}

func (b *treeBuilder) thematicBreakSpan(n ast.Node) span {
	off := 0
	for prev := n.PreviousSibling(); prev != nil; prev = prev.PreviousSibling() {
		if s := b.spanOf(prev); s.ok {
			next, ok := b.ix.nextLineStart(s.stop)
			if !ok {
				return span{}
			}
			off = next
			break
		}
	}
	if off == 0 && b.front != nil {
		off = b.front.stop
	}
	for off < len(b.src) {
		end := b.ix.lineEnd(off)
		if thematicBreakRe.Match(b.src[off:end]) {
			return span{start: b.ix.firstNonSpace(off), stop: end, ok: true}
		}
		next, ok := b.ix.nextLineStart(off)
		if !ok {
			break
		}
		off = next
	}
	return span{}
}

func (b *treeBuilder) autoLinkSpan(a *ast.AutoLink) span {
	s := b.search(a, a.Label(b.src))
	if !s.ok {
		return s
	}
	if s.start > 0 && b.src[s.start-1] == '<' && s.stop < len(b.src) && b.src[s.stop] == '>' {
		s.start--
		s.stop++
	}
	return s
}

// search finds needle after the preceding sibling, or after the start of
// the enclosing block when there is none.
func (b *treeBuilder) search(n ast.Node, needle []byte) span {
	if len(needle) == 0 {
		return span{}
	}
	from := b.searchFrom(n)
	idx := bytes.Index(b.src[from:], needle)
	if idx < 0 {
		return span{}
	}
	return span{start: from + idx, stop: from + idx + len(needle), ok: true}
}

func (b *treeBuilder) searchFrom(n ast.Node) int {
	for prev := n.PreviousSibling(); prev != nil; prev = prev.PreviousSibling() {
		if s := b.spanOf(prev); s.ok {
			return s.stop
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == ast.TypeBlock && p.Lines() != nil && p.Lines().Len() > 0 {
			return p.Lines().At(0).Start
		}
	}
	return 0
}

func (b *treeBuilder) wrapDelims(s span, n int, chars string) span {
	for i := 0; i < n && s.start > 0 && strings.IndexByte(chars, b.src[s.start-1]) >= 0; i++ {
		s.start--
	}
	for i := 0; i < n && s.stop < len(b.src) && strings.IndexByte(chars, b.src[s.stop]) >= 0; i++ {
		s.stop++
	}
	return s
}

func (b *treeBuilder) codeSpanSpan(s span) span {
	if s.start > 1 && b.src[s.start-1] == ' ' && b.src[s.start-2] == '`' {
		s.start--
	}
	for s.start > 0 && b.src[s.start-1] == '`' {
		s.start--
	}
	if s.stop+1 < len(b.src) && b.src[s.stop] == ' ' && b.src[s.stop+1] == '`' {
		s.stop++
	}
	for s.stop < len(b.src) && b.src[s.stop] == '`' {
		s.stop++
	}
	return s
}

func (b *treeBuilder) linkSpan(s span, image bool) span {
	if s.start > 0 && b.src[s.start-1] == '[' {
		s.start--
		if image && s.start > 0 && b.src[s.start-1] == '!' {
			s.start--
		}
	}
	if s.stop < len(b.src) && b.src[s.stop] == ']' {
		s.stop++
		if s.stop < len(b.src) {
			switch b.src[s.stop] {
			case '(':
				if i := matchParen(b.src, s.stop); i >= 0 {
					s.stop = i + 1
				}
			case '[':
				if i := bytes.IndexByte(b.src[s.stop:], ']'); i >= 0 {
					s.stop += i + 1
				}
			}
		}
	}
	return s
}

func (b *treeBuilder) wikiSpan(s span, embed bool) span {
	lineStart := b.ix.lineStart(s.start)
	if i := bytes.LastIndex(b.src[lineStart:s.start], []byte("[[")); i >= 0 {
		s.start = lineStart + i
		if embed && s.start > 0 && b.src[s.start-1] == '!' {
			s.start--
		}
	}
	lineEnd := b.ix.lineEnd(s.stop)
	if i := bytes.Index(b.src[s.stop:lineEnd], []byte("]]")); i >= 0 {
		s.stop += i + 2
	}
	return s
}

// matchParen returns the index of the parenthesis closing the one at open.
func matchParen(src []byte, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isListMarkerByte(c byte) bool {
	switch c {
	case ' ', '\t', '-', '*', '+', '.', ')':
		return true
	}
	return c >= '0' && c <= '9'
}
