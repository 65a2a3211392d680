package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/mdplay/internal/config"
	"github.com/oakwood-commons/mdplay/internal/formatter"
	"github.com/oakwood-commons/mdplay/internal/htmlfmt"
	"github.com/oakwood-commons/mdplay/internal/markdown"
	"github.com/oakwood-commons/mdplay/internal/playground"
	"github.com/oakwood-commons/mdplay/internal/preview"
	"github.com/oakwood-commons/mdplay/internal/query"
	"github.com/oakwood-commons/mdplay/internal/ui"
	"github.com/oakwood-commons/mdplay/internal/value"
	"github.com/oakwood-commons/mdplay/pkg/logger"
)

var (
	dumpView      string
	dumpOutput    string
	dumpExpr      string
	dumpWidth     int
	dumpHighlight bool
	dumpDirection string
	dumpTree      formatter.TreeOptions
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Parse a document and print one derived output",
	Long: "Parse a markdown document (file argument, '-' or piped stdin) and print the\n" +
		"syntax tree, the frontmatter, the HTML source or the rendered preview.\n" +
		"Tree and metadata accept a CEL expression over '_' and any --output format.",
	Example: "\n  mdplay dump README.md\n  mdplay dump --view metadata -o yaml post.md\n" +
		"  mdplay dump -o outline --no-positions README.md\n" +
		"  mdplay dump -e '_.children.filter(n, n.kind == \"heading\").map(n, n.content)' README.md\n" +
		"  cat post.md | mdplay dump --view html\n",
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	lgr := logger.FromContext(rootCtx)
	cfg, err := loadAppConfig(configFile, "")
	if err != nil {
		return err
	}
	mode, err := playground.ParseViewMode(dumpView)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(dumpOutput)
	if err != nil {
		return err
	}
	if err := formatter.ValidateArrayStyle(dumpTree.ArrayStyle); err != nil {
		return err
	}
	opts, err := cfg.ParserOptions()
	if err != nil {
		return err
	}
	if opts, err = applyOptionFlags(opts, optionFlags); err != nil {
		return err
	}
	if len(args) == 0 && !stdinIsPiped() {
		return fmt.Errorf("no input: pass a file, '-' or pipe a document")
	}
	text, source, err := readInput(cmd.InOrStdin(), args, "")
	if err != nil {
		return err
	}

	shell := playground.New(nil, text, opts, playground.WithLogger(*lgr), playground.WithViewMode(mode))
	out := shell.Outputs()
	if out.Err != nil {
		return fmt.Errorf("parse %s: %w", source, out.Err)
	}
	lgr.V(1).Info("dump", logger.InputKey, source, "view", mode.String(), "elapsed_ms", out.ElapsedMillis())

	d := dumper{cfg: cfg, w: cmd.OutOrStdout()}
	switch mode {
	case playground.ViewMetadata:
		if !out.HasMetadata() && dumpExpr == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.NoFrontmatter)
			return nil
		}
		return d.value(out.Metadata, format)
	case playground.ViewHTML:
		return d.html(out.HTML)
	case playground.ViewPreview:
		return d.preview(out.HTML)
	default:
		return d.value(out.Tree, format)
	}
}

type dumper struct {
	cfg config.File
	w   io.Writer
}

func (d dumper) value(v value.Value, format formatter.Format) error {
	if strings.TrimSpace(dumpExpr) != "" {
		ev, err := query.NewEvaluator()
		if err != nil {
			return err
		}
		if v, err = ev.Evaluate(dumpExpr, v); err != nil {
			return fmt.Errorf("expression: %w", err)
		}
	}
	s, err := formatter.Render(v, format, formatter.Options{
		Indent:    intOr(d.cfg.UI.Viewer.Indent, 2),
		Outline:   dumpTree,
		Direction: dumpDirection,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(d.w, s)
	return err
}

func (d dumper) useColor() bool {
	return dumpHighlight && !noColor && os.Getenv("NO_COLOR") == ""
}

func (d dumper) highlighter() *htmlfmt.Highlighter {
	hc := d.cfg.UI.Highlight
	return htmlfmt.NewHighlighter(hc.Style, hc.Formatter)
}

func (d dumper) html(src string) error {
	var text string
	if d.useColor() {
		text = htmlfmt.Render(rootCtx, d.highlighter(), src).Text
	} else {
		text = htmlfmt.Format(src)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(d.w, text)
	return err
}

func (d dumper) preview(src string) error {
	width := dumpWidth
	if width <= 0 {
		width, _ = resolveSnapshotSize(0, 0)
	}
	styles := preview.PlainStyles()
	var h *htmlfmt.Highlighter
	if d.useColor() {
		th := ui.CurrentTheme()
		styles = preview.NewStyles(th.Accent, th.Muted, th.Code)
		h = d.highlighter()
	}
	text, err := preview.New(width, styles, h).Render(rootCtx, src)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(d.w, text)
	return err
}

func init() { //nolint:gochecknoinits
	f := dumpCmd.Flags()
	f.StringVar(&dumpView, "view", "tree", "what to print: tree, metadata, html, preview")
	f.StringVarP(&dumpOutput, "output", "o", "json", "format for tree and metadata: json|yaml|toml|tree|outline|mermaid")
	f.StringVarP(&dumpExpr, "expression", "e", "", "CEL expression applied to the tree or metadata, bound to '_'")
	f.IntVar(&dumpWidth, "width", 0, "wrap width for the preview (default: terminal width or 80)")
	f.BoolVar(&dumpHighlight, "highlight", false, "syntax highlight html and preview code blocks")
	f.StringVar(&dumpDirection, "mermaid-direction", "TD", "mermaid diagram direction: TD, LR, BT, RL")
	f.BoolVar(&dumpTree.NoValues, "no-values", false, "outline/mermaid: hide content values")
	f.BoolVar(&dumpTree.NoPositions, "no-positions", false, "outline/mermaid: hide source spans")
	f.IntVar(&dumpTree.MaxDepth, "depth", 0, "outline/mermaid: limit depth (0 = unlimited)")
	f.BoolVar(&dumpTree.ExpandArrays, "expand-arrays", false, "outline/mermaid: show every array element")
	f.IntVar(&dumpTree.MaxStringLen, "max-string", 0, "outline/mermaid: truncate strings to this many columns")
	f.StringVar(&dumpTree.ArrayStyle, "array-style", "index", "outline/mermaid array index style: index, numbered, bullet, none")
}

// markdownFlagNames is used by shell completion of --option.
func markdownFlagNames() []string {
	names := make([]string, 0, len(markdown.Flags))
	for _, info := range markdown.Flags {
		names = append(names, string(info.Flag)+"=true", string(info.Flag)+"=false")
	}
	return names
}
