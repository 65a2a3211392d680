// Package playground holds the application state of the markdown playground:
// the input text and the parser options are the two sources of truth, and
// every change to either re-runs the parser and republishes the derived
// outputs in one step.
package playground

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/mdplay/internal/markdown"
	"github.com/oakwood-commons/mdplay/internal/value"
)

// Result is what one parser invocation yields.
type Result struct {
	Tree     value.Value
	Metadata value.Value
	HTML     string
	Tags     []string
}

// Parser turns text and options into a Result.
type Parser interface {
	Parse(text string, opts markdown.Options) (Result, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(text string, opts markdown.Options) (Result, error)

// Parse calls f.
func (f ParserFunc) Parse(text string, opts markdown.Options) (Result, error) {
	return f(text, opts)
}

// MarkdownParser is the goldmark-backed Parser.
type MarkdownParser struct{}

// Parse runs the markdown adapter and renders HTML.
func (MarkdownParser) Parse(text string, opts markdown.Options) (Result, error) {
	doc, err := markdown.ParseWithOptions(text, opts)
	if err != nil {
		return Result{}, err
	}
	html, err := doc.HTML()
	if err != nil {
		return Result{}, err
	}
	var meta value.Value
	if doc.Frontmatter != nil {
		meta = NormalizeMetadata(doc.Frontmatter)
	}
	return Result{
		Tree:     doc.Tree,
		Metadata: meta,
		HTML:     html,
		Tags:     doc.Tags,
	}, nil
}

// NormalizeMetadata converts map-like frontmatter into an ordered
// string-keyed mapping. Absent metadata stays nil.
func NormalizeMetadata(meta any) value.Value {
	if meta == nil {
		return nil
	}
	return value.Normalize(meta)
}

// Outputs are the derived outputs of the latest successful parse.
type Outputs struct {
	Tree     value.Value
	Metadata value.Value
	HTML     string
	Tags     []string
	// Elapsed is the wall-clock time of the parser invocation.
	Elapsed time.Duration
	// Err is the error of the latest parse. The other fields then still hold
	// the outputs of the last parse that succeeded.
	Err error
	// Generation increases with every parse.
	Generation uint64
}

// ElapsedMillis is Elapsed in milliseconds, rounded up to two decimals.
func (o Outputs) ElapsedMillis() float64 {
	ms := float64(o.Elapsed) / float64(time.Millisecond)
	return math.Ceil(ms*100) / 100
}

// HasMetadata reports whether the document carried non-empty frontmatter.
func (o Outputs) HasMetadata() bool {
	switch m := o.Metadata.(type) {
	case nil:
		return false
	case *value.Map:
		return m.Len() > 0
	case []any:
		return len(m) > 0
	default:
		return !value.IsUndefined(m)
	}
}

// ErrNothingToCopy is returned by CopyPayload before the first successful
// parse.
var ErrNothingToCopy = errors.New("nothing to copy")

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger parse invocations are reported to.
func WithLogger(log logr.Logger) Option {
	return func(s *Shell) { s.log = log }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithViewMode sets the initial view mode.
func WithViewMode(m ViewMode) Option {
	return func(s *Shell) { s.mode = m }
}

// Shell owns the input text, the options, the view mode and the derived
// outputs. It is not safe for concurrent use; the UI drives it from its
// event loop.
type Shell struct {
	parser  Parser
	text    string
	opts    markdown.Options
	mode    ViewMode
	outputs Outputs
	gen     uint64
	subs    map[int]func(Outputs)
	nextSub int
	now     func() time.Time
	log     logr.Logger
}

// New creates a shell and runs the first parse.
func New(parser Parser, text string, opts markdown.Options, options ...Option) *Shell {
	if parser == nil {
		parser = MarkdownParser{}
	}
	s := &Shell{
		parser: parser,
		text:   text,
		opts:   opts,
		subs:   map[int]func(Outputs){},
		now:    time.Now,
		log:    logr.Discard(),
	}
	for _, o := range options {
		o(s)
	}
	s.parse()
	return s
}

// Text returns the current input.
func (s *Shell) Text() string { return s.text }

// Options returns the current parser options.
func (s *Shell) Options() markdown.Options { return s.opts }

// Outputs returns the latest derived outputs.
func (s *Shell) Outputs() Outputs { return s.outputs }

// Mode returns the active view mode.
func (s *Shell) Mode() ViewMode { return s.mode }

// SetMode switches the view mode. It never parses.
func (s *Shell) SetMode(m ViewMode) { s.mode = m }

// SetInput replaces the input text and re-parses. Setting the same text
// again is a no-op.
func (s *Shell) SetInput(text string) Outputs {
	if text == s.text {
		return s.outputs
	}
	s.text = text
	return s.parse()
}

// Clear empties the input.
func (s *Shell) Clear() Outputs {
	return s.SetInput("")
}

// SetOption sets one flag and re-parses when it changed.
func (s *Shell) SetOption(f markdown.Flag, on bool) Outputs {
	if s.opts.Enabled(f) == on {
		return s.outputs
	}
	s.opts = s.opts.With(f, on)
	return s.parse()
}

// ToggleOption flips one flag and re-parses.
func (s *Shell) ToggleOption(f markdown.Flag) Outputs {
	return s.SetOption(f, !s.opts.Enabled(f))
}

// SetOptions replaces the whole option set and re-parses.
func (s *Shell) SetOptions(opts markdown.Options) Outputs {
	s.opts = opts
	return s.parse()
}

// Reparse runs the parser again with unchanged inputs.
func (s *Shell) Reparse() Outputs {
	return s.parse()
}

// Subscribe registers fn to receive every new Outputs. The returned func
// removes the subscription.
func (s *Shell) Subscribe(fn func(Outputs)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Shell) parse() Outputs {
	s.gen++
	start := s.now()
	res, err := s.parser.Parse(s.text, s.opts)
	elapsed := s.now().Sub(start)

	out := s.outputs
	out.Generation = s.gen
	out.Elapsed = elapsed
	out.Err = err
	if err == nil {
		out.Tree = res.Tree
		out.Metadata = NormalizeMetadata(res.Metadata)
		out.HTML = res.HTML
		out.Tags = res.Tags
	}
	s.outputs = out

	if err != nil {
		s.log.Error(err, "parse failed", "generation", s.gen, "bytes", len(s.text))
	} else {
		s.log.V(1).Info("parsed", "generation", s.gen, "elapsed", elapsed, "bytes", len(s.text))
	}
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			fn(out)
		}
	}
	return out
}

// CopyPayload returns the clipboard text for the active mode: the tree as
// indented JSON in tree mode, the raw HTML otherwise.
func (s *Shell) CopyPayload() (string, error) {
	if s.mode == ViewTree {
		if s.outputs.Tree == nil {
			return "", ErrNothingToCopy
		}
		payload, err := value.MarshalIndentJSON(s.outputs.Tree, "  ")
		if err != nil {
			return "", fmt.Errorf("serialize tree: %w", err)
		}
		return payload, nil
	}
	return s.outputs.HTML, nil
}
