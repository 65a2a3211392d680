// Package markdown adapts goldmark to the playground's parser contract: it
// turns markdown text plus a set of options into a document exposing a
// displayable syntax tree, frontmatter metadata, tags, and HTML.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/oakwood-commons/mdplay/internal/value"
)

var (
	// ErrInputTooLarge is returned when the input exceeds Options.MaxInputBytes.
	ErrInputTooLarge = errors.New("input too large")
	// ErrTooManyNodes is returned when the tree exceeds Options.MaxNodes.
	ErrTooManyNodes = errors.New("too many nodes")
)

// Document is the result of one parse.
type Document struct {
	// Tree is the syntax tree as a displayable value rooted at a "document" node.
	Tree value.Value
	// Frontmatter is the raw map-like metadata, nil when the document has
	// none or it is not valid YAML.
	Frontmatter yamlv2.MapSlice
	// Tags lists hashtags in order of first appearance, without "#".
	Tags []string

	source []byte
	root   ast.Node
	md     goldmark.Markdown
}

// HTML renders the document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.md.Renderer().Render(&buf, d.source, d.root); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Parse parses text with DefaultOptions.
func Parse(text string) (*Document, error) {
	return ParseWithOptions(text, DefaultOptions())
}

// ParseWithOptions parses text with opts.
func ParseWithOptions(src string, opts Options) (*Document, error) {
	if opts.MaxInputBytes > 0 && len(src) > opts.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(src), opts.MaxInputBytes)
	}

	source := []byte(src)
	nouns := append([]string(nil), opts.CJKNouns...)
	transform := newTextTransform(opts, &nouns)
	md := newEngine(opts, transform)

	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	var front *frontmatterBlock
	items, err := meta.TryGetItems(ctx)
	if err != nil {
		items = nil
	}
	if stop, ok := findFrontmatter(source); ok {
		content := value.Normalize(items)
		if content == nil {
			content = value.NewMap()
		}
		front = &frontmatterBlock{stop: stop, content: content}
		nouns = append(nouns, nounsFromMetadata(content, opts.CJKNounsFromFrontmatter)...)
	}

	b := newTreeBuilder(source, transform, opts.MaxNodes, front)
	tree, err := b.build(root)
	if err != nil {
		return nil, err
	}

	return &Document{
		Tree:        tree,
		Frontmatter: items,
		Tags:        b.tags,
		source:      source,
		root:        root,
		md:          md,
	}, nil
}
