// Package preview renders generated HTML as styled terminal text.
package preview

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/oakwood-commons/mdplay/internal/htmlfmt"
)

// noiseSelectors are removed before rendering. Raw HTML passed through by
// the component option may carry them.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"iframe", "object", "embed", "canvas", "svg",
}

// Renderer turns an HTML fragment into wrapped, styled lines.
type Renderer struct {
	Width       int
	Styles      Styles
	Highlighter *htmlfmt.Highlighter
}

// New returns a renderer for the given width. A nil highlighter leaves code
// blocks unhighlighted.
func New(width int, styles Styles, h *htmlfmt.Highlighter) *Renderer {
	return &Renderer{Width: width, Styles: styles, Highlighter: h}
}

// Render parses fragment and renders its body. Blocks are separated by one
// blank line.
func (r *Renderer) Render(ctx context.Context, fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", nil
	}

	w := &walker{ctx: ctx, r: r}
	blocks := w.blocks(body.Nodes[0], max(r.Width, 10))
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.Join(blocks, "\n\n"), nil
}

type walker struct {
	ctx context.Context
	r   *Renderer
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "pre",
		"blockquote", "hr", "table", "div", "section", "article", "details",
		"dl", "figure", "aside", "main", "header", "footer":
		return true
	}
	return false
}

// blocks renders the children of n as a list of blocks wrapped to width.
// Inline runs between block children form their own paragraph.
func (w *walker) blocks(n *html.Node, width int) []string {
	var out []string
	var inline strings.Builder
	flush := func() {
		text := strings.TrimSpace(inline.String())
		inline.Reset()
		if text != "" {
			out = append(out, lipgloss.Wrap(text, width, " "))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if w.ctx.Err() != nil {
			return out
		}
		if !isBlock(c) {
			inline.WriteString(w.inline(c))
			continue
		}
		flush()
		if b := w.block(c, width); b != "" {
			out = append(out, b)
		}
	}
	flush()
	return out
}

func (w *walker) block(n *html.Node, width int) string {
	st := w.r.Styles
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(n.Data[1:])
		text := strings.TrimSpace(w.inlineChildren(n))
		prefix := strings.Repeat("#", level) + " "
		return st.heading(level).Render(lipgloss.Wrap(prefix+text, width, " "))
	case "p":
		return lipgloss.Wrap(strings.TrimSpace(w.inlineChildren(n)), width, " ")
	case "hr":
		return st.Rule.Render(strings.Repeat("─", width))
	case "pre":
		return w.codeBlock(n, width)
	case "blockquote":
		inner := strings.Join(w.blocks(n, max(width-2, 1)), "\n\n")
		return prefixLines(inner, st.Quote.Render("│ "), st.Quote.Render("│ "))
	case "ul", "ol":
		return w.list(n, width)
	case "table":
		return w.table(n, width)
	default:
		return strings.Join(w.blocks(n, width), "\n\n")
	}
}

func (w *walker) list(n *html.Node, width int) string {
	ordered := n.Data == "ol"
	index := 1
	if ordered {
		if s, ok := attr(n, "start"); ok {
			if v, err := strconv.Atoi(s); err == nil {
				index = v
			}
		}
	}
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		marker := "• "
		if ordered {
			marker = strconv.Itoa(index) + ". "
			index++
		}
		indent := len([]rune(marker))
		body := strings.Join(w.blocks(c, max(width-indent, 1)), "\n")
		items = append(items, prefixLines(body, w.r.Styles.Bullet.Render(marker), strings.Repeat(" ", indent)))
	}
	return strings.Join(items, "\n")
}

func (w *walker) codeBlock(n *html.Node, width int) string {
	src := textContent(n)
	src = strings.TrimSuffix(src, "\n")
	lang := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			if class, ok := attr(c, "class"); ok {
				for _, f := range strings.Fields(class) {
					if l, found := strings.CutPrefix(f, "language-"); found {
						lang = l
					}
				}
			}
		}
	}
	if lang != "" && w.r.Highlighter != nil {
		if out, err := w.r.Highlighter.Highlight(w.ctx, src, lang); err == nil {
			return prefixLines(strings.TrimSuffix(out, "\n"), "  ", "  ")
		}
	}
	return prefixLines(w.r.Styles.CodeBlock.Render(src), "  ", "  ")
}

func (w *walker) table(n *html.Node, width int) string {
	var headers []string
	var rows [][]string
	var visit func(*html.Node)
	visit = func(x *html.Node) {
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				visit(c)
			case "tr":
				var cells []string
				header := false
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
						header = header || td.Data == "th"
						cells = append(cells, strings.TrimSpace(w.inlineChildren(td)))
					}
				}
				if header && headers == nil {
					headers = cells
				} else {
					rows = append(rows, cells)
				}
			}
		}
	}
	visit(n)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(w.r.Styles.Rule).
		Width(width).
		Rows(rows...)
	if headers != nil {
		t = t.Headers(headers...)
	}
	return t.String()
}

// inline renders an inline node.
func (w *walker) inline(n *html.Node) string {
	st := w.r.Styles
	switch n.Type {
	case html.TextNode:
		return collapseSpace(n.Data)
	case html.ElementNode:
	default:
		return ""
	}
	switch n.Data {
	case "br":
		return "\n"
	case "strong", "b":
		return st.Bold.Render(w.inlineChildren(n))
	case "em", "i":
		return st.Italic.Render(w.inlineChildren(n))
	case "del", "s":
		return st.Strike.Render(w.inlineChildren(n))
	case "code":
		return st.Code.Render(textContent(n))
	case "a":
		text := w.inlineChildren(n)
		href, _ := attr(n, "href")
		if class, _ := attr(n, "class"); strings.Contains(class, "hashtag") || strings.HasPrefix(text, "#") {
			return st.Tag.Render(text)
		}
		if href == "" || href == text {
			return st.Link.Render(text)
		}
		return st.Link.Render(text) + st.Muted.Render(" ("+href+")")
	case "img":
		alt, _ := attr(n, "alt")
		src, _ := attr(n, "src")
		if alt == "" {
			alt = src
		}
		return st.Muted.Render("[image: " + alt + "]")
	case "input":
		if t, _ := attr(n, "type"); t == "checkbox" {
			if _, checked := attr(n, "checked"); checked {
				return st.Bullet.Render("[x]") + " "
			}
			return st.Bullet.Render("[ ]") + " "
		}
		return ""
	default:
		return w.inlineChildren(n)
	}
}

func (w *walker) inlineChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isBlock(c) {
			sb.WriteString(" ")
			sb.WriteString(strings.Join(w.blocks(c, max(w.r.Width, 10)), " "))
			continue
		}
		sb.WriteString(w.inline(c))
	}
	return sb.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func collapseSpace(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) && len(fields) > 0 {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

// prefixLines prefixes the first line with first and the rest with rest.
func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i == 0 {
			lines[i] = first + l
		} else {
			lines[i] = rest + l
		}
	}
	return strings.Join(lines, "\n")
}
