package markdown

import (
	"unicode/utf8"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/hashtag"
	"go.abhg.dev/goldmark/wikilink"

	"github.com/oakwood-commons/mdplay/internal/markdown/cjk"
)

// textTransform rewrites prose text. It is nil when no transform is enabled.
type textTransform func(string) string

// nouns is read on every call so nouns found in the frontmatter after
// parsing still apply.
func newTextTransform(opts Options, nouns *[]string) textTransform {
	if !opts.transformsText() {
		return nil
	}
	return func(s string) string {
		if opts.NormalizeChinesePunctuation {
			s = cjk.NormalizePunctuation(s)
		}
		if opts.CJKAutocorrect {
			s = cjk.Autospace(s, (*nouns)...)
		}
		return s
	}
}

// newEngine builds a goldmark instance for opts. Frontmatter is always
// recognized; everything else follows the flags.
func newEngine(opts Options, transform textTransform) goldmark.Markdown {
	exts := []goldmark.Extender{meta.Meta}
	if opts.GitHubFlavored {
		exts = append(exts, extension.Table, extension.Strikethrough, extension.TaskList)
	}
	if opts.GFMExtendedAutolink {
		exts = append(exts, extension.Linkify)
	}
	if opts.ObsidianFlavored {
		exts = append(exts,
			&wikilink.Extender{},
			&hashtag.Extender{Variant: hashtag.ObsidianVariant},
		)
	}
	if opts.SmartPunctuation {
		exts = append(exts, extension.Typographer)
	}
	if opts.CJKFriendlyDelimiters {
		exts = append(exts, extension.NewCJK(
			extension.WithEastAsianLineBreaks(),
			extension.WithEscapedSpace(),
		))
	}

	rendererOpts := []renderer.Option{}
	if opts.MDXComponent {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if transform != nil {
		rendererOpts = append(rendererOpts, renderer.WithNodeRenderers(
			util.Prioritized(&textRenderer{
				transform:  transform,
				eastAsian:  opts.CJKFriendlyDelimiters,
				htmlWriter: html.DefaultWriter,
			}, 100),
		))
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// textRenderer replaces goldmark's text node rendering so prose passes
// through the CJK transforms. Code spans render their own children and are
// unaffected.
type textRenderer struct {
	transform  textTransform
	eastAsian  bool
	htmlWriter html.Writer
}

func (r *textRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindText, r.renderText)
}

func (r *textRenderer) renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Text)
	value := n.Segment.Value(source)
	if n.IsRaw() {
		r.htmlWriter.RawWrite(w, value)
		return ast.WalkContinue, nil
	}
	r.htmlWriter.Write(w, []byte(r.transform(string(value))))
	switch {
	case n.HardLineBreak():
		_, _ = w.WriteString("<br>\n")
	case n.SoftLineBreak():
		if r.eastAsian && joinsEastAsian(value, node.NextSibling(), source) {
			break
		}
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

// joinsEastAsian reports whether a soft break sits between two wide CJK
// characters, in which case the line break is dropped.
func joinsEastAsian(value []byte, next ast.Node, source []byte) bool {
	last, _ := utf8.DecodeLastRune(value)
	if !cjk.IsCJK(last) {
		return false
	}
	t, ok := next.(*ast.Text)
	if !ok {
		return false
	}
	first, _ := utf8.DecodeRune(t.Segment.Value(source))
	return cjk.IsCJK(first)
}
