package htmlfmt

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultLanguage  = "html"
	DefaultStyle     = "github-dark"
	DefaultFormatter = "terminal256"
)

// Highlighter colors source text with chroma.
type Highlighter struct {
	Style     string
	Formatter string
}

// NewHighlighter returns a highlighter, filling empty names with defaults.
func NewHighlighter(style, formatter string) *Highlighter {
	if style == "" {
		style = DefaultStyle
	}
	if formatter == "" {
		formatter = DefaultFormatter
	}
	return &Highlighter{Style: style, Formatter: formatter}
}

// Highlight tokenises src as lang and formats it with the configured style.
// Unknown languages, styles, or formatters are errors rather than silent
// fallbacks so callers can choose their own.
func (h *Highlighter) Highlight(ctx context.Context, src, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("no lexer for %q", lang)
	}
	lexer = chroma.Coalesce(lexer)

	style, ok := styles.Registry[h.Style]
	if !ok {
		return "", fmt.Errorf("unknown style %q", h.Style)
	}
	formatter, ok := formatters.Registry[h.Formatter]
	if !ok {
		return "", fmt.Errorf("unknown formatter %q", h.Formatter)
	}

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lang, err)
	}
	var sb strings.Builder
	if err := formatter.Format(&sb, style, it); err != nil {
		return "", fmt.Errorf("format %s: %w", lang, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Result is the HTML source view content.
type Result struct {
	Text        string
	Highlighted bool
	Err         error
}

// Fallback presents formatted text verbatim. Highlighted is false, which
// tells views to show the text as a plain code block.
func Fallback(formatted string) Result {
	return Result{Text: formatted}
}

// Render formats html and highlights it. Any highlighting failure yields
// the fallback with the error attached for logging.
func Render(ctx context.Context, h *Highlighter, html string) Result {
	formatted := Format(html)
	if h == nil {
		return Fallback(formatted)
	}
	out, err := h.Highlight(ctx, formatted, DefaultLanguage)
	if err != nil {
		res := Fallback(formatted)
		res.Err = err
		return res
	}
	return Result{Text: out, Highlighted: true}
}
