package ui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/mdplay/internal/editor"
	"github.com/oakwood-commons/mdplay/internal/htmlfmt"
	"github.com/oakwood-commons/mdplay/internal/markdown"
	"github.com/oakwood-commons/mdplay/internal/playground"
	"github.com/oakwood-commons/mdplay/internal/preview"
	"github.com/oakwood-commons/mdplay/internal/query"
	"github.com/oakwood-commons/mdplay/internal/selection"
	"github.com/oakwood-commons/mdplay/internal/value"
	"github.com/oakwood-commons/mdplay/internal/viewer"
)

// NoFrontmatter is shown in the metadata view when the document has none.
const NoFrontmatter = "No frontmatter found"

// Config configures a RootModel.
type Config struct {
	AppName string
	Text    string
	Options markdown.Options
	Mode    playground.ViewMode
	// Parser defaults to the markdown parser.
	Parser playground.Parser

	Theme   Theme
	NoColor bool

	HighlightEnabled bool
	HighlightStyle   string
	// HighlightFormatter is a chroma formatter name. NoColor forces "noop".
	HighlightFormatter string
	// SyncHighlight highlights inside Update instead of in a command. Used
	// for snapshots.
	SyncHighlight bool

	Indent       int
	LineNumbers  bool
	Placeholder  string
	InputPercent int
	ShowOptions  bool
	// About lines are shown below the key reference in the help view.
	About []string

	Context context.Context
	Logger  logr.Logger
}

type focusArea int

const (
	focusInput focusArea = iota
	focusOutput
	focusOptions
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// highlightedMsg carries an HTML highlight result for one parse generation.
type highlightedMsg struct {
	Gen    uint64
	Result htmlfmt.Result
}

// RootModel is the playground: an editor on the left, the selected output
// view on the right, a status bar and optional options, prompt and help.
type RootModel struct {
	cfg    Config
	ctx    context.Context
	log    logr.Logger
	shell  *playground.Shell
	styles Styles

	input   *inputPane
	tree    *treePane
	meta    *treePane
	html    *textPane
	preview *textPane
	options *optionsPane
	bridge  *selection.Bridge

	prompt       textinput.Model
	promptActive bool
	evaluator    *query.Evaluator
	// completions cycle on repeated tab while the prompt shows one of them.
	completions []string
	completeIdx int
	queries     map[playground.ViewMode]string

	highlighter *htmlfmt.Highlighter
	previewer   *preview.Renderer
	htmlWant    uint64
	lastHTML    string

	focus       focusArea
	showOptions bool
	showHelp    bool
	width       int
	height      int
	layout      Layout
	tabs        []tabSpan

	status     string
	statusKind statusKind
	parseErr   bool

	lastVersion int
	pending     []tea.Cmd
	unsubscribe func()
	quitting    bool
}

// NewRootModel builds the playground and runs the first parse.
func NewRootModel(cfg Config) *RootModel {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.AppName == "" {
		cfg.AppName = "mdplay"
	}
	m := &RootModel{
		cfg:         cfg,
		ctx:         ctx,
		log:         cfg.Logger,
		queries:     map[playground.ViewMode]string{},
		showOptions: cfg.ShowOptions,
		width:       80,
		height:      24,
	}
	if m.log.GetSink() == nil {
		m.log = logr.Discard()
	}
	if cfg.NoColor {
		m.styles = PlainStyles()
	} else {
		th := cfg.Theme
		if th == (Theme{}) {
			th = CurrentTheme()
		}
		m.styles = NewStyles(th)
	}

	m.input = newInputPane(cfg.Text)
	m.input.ed.SetStyles(m.styles.Editor)
	m.input.ed.ShowGutter(cfg.LineNumbers)
	m.input.ed.Placeholder = cfg.Placeholder
	m.bridge = selection.NewBridge(m.input.ed)

	onClick := func(start, end value.Value) { m.bridge.Select(start, end) }
	m.tree = newTreePane(playground.ViewTree.Title(), onClick)
	m.meta = newTreePane(playground.ViewMetadata.Title(), onClick)
	m.meta.empty = m.styles.Muted.Render(NoFrontmatter)
	for _, p := range []*treePane{m.tree, m.meta} {
		p.vw.SetStyles(m.styles.Viewer)
		if cfg.Indent > 0 {
			p.vw.SetIndent(cfg.Indent)
		}
	}
	m.html = newTextPane(playground.ViewHTML.Title())
	m.preview = newTextPane(playground.ViewPreview.Title())
	m.options = newOptionsPane(cfg.Options, m.styles)

	ti := textinput.New()
	ti.Prompt = ":"
	ti.Placeholder = "CEL over _ (e.g. _.children.filter(n, n.kind == \"heading\"))"
	ti.CharLimit = 500
	ti.SetWidth(78)
	m.prompt = ti

	if cfg.HighlightEnabled {
		formatter := cfg.HighlightFormatter
		if cfg.NoColor {
			formatter = "noop"
		}
		m.highlighter = htmlfmt.NewHighlighter(cfg.HighlightStyle, formatter)
	}
	var codeHL *htmlfmt.Highlighter
	if !cfg.NoColor {
		codeHL = m.highlighter
	}
	m.previewer = preview.New(80, m.styles.Preview, codeHL)

	m.shell = playground.New(cfg.Parser, cfg.Text, cfg.Options,
		playground.WithLogger(m.log), playground.WithViewMode(cfg.Mode))
	m.unsubscribe = m.shell.Subscribe(m.applyOutputs)
	m.lastVersion = m.input.ed.Version()
	m.input.Focus()
	m.relayout()
	m.applyOutputs(m.shell.Outputs())
	return m
}

// Shell exposes the playground state.
func (m *RootModel) Shell() *playground.Shell { return m.shell }

// Close detaches the model from the shell.
func (m *RootModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *RootModel) Init() tea.Cmd {
	return m.takePending()
}

func (m *RootModel) takePending() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *RootModel) setStatus(kind statusKind, format string, args ...any) {
	m.statusKind = kind
	m.status = fmt.Sprintf(format, args...)
	m.parseErr = false
}

// applyOutputs is subscribed to the shell and refreshes every view.
func (m *RootModel) applyOutputs(out playground.Outputs) {
	if out.Err != nil {
		m.setStatus(statusError, "parse error: %v", out.Err)
		m.parseErr = true
		return
	}
	if m.parseErr {
		m.status = ""
		m.parseErr = false
	}
	m.options.SetOptions(m.shell.Options())
	m.refreshTree(playground.ViewTree, out.Tree, out.Tree != nil)
	m.refreshTree(playground.ViewMetadata, out.Metadata, out.HasMetadata())
	m.lastHTML = out.HTML
	m.renderPreview()

	switch {
	case m.highlighter == nil:
		m.applyHighlight(htmlfmt.Fallback(htmlfmt.Format(out.HTML)))
	case m.cfg.SyncHighlight:
		m.htmlWant = out.Generation
		m.applyHighlight(htmlfmt.Render(m.ctx, m.highlighter, out.HTML))
	default:
		m.htmlWant = out.Generation
		m.pending = append(m.pending, highlightCmd(m.ctx, m.highlighter, out.Generation, out.HTML))
	}
}

func highlightCmd(ctx context.Context, h *htmlfmt.Highlighter, gen uint64, html string) tea.Cmd {
	return func() tea.Msg {
		return highlightedMsg{Gen: gen, Result: htmlfmt.Render(ctx, h, html)}
	}
}

func (m *RootModel) applyHighlight(res htmlfmt.Result) {
	if res.Err != nil {
		m.log.V(1).Info("highlight fell back to plain text", "error", res.Err.Error())
	}
	m.html.SetContent(res.Text)
	m.html.SetCodeBlock(!res.Highlighted, m.styles.CodeBlock)
}

func (m *RootModel) renderPreview() {
	m.previewer.Width = m.layout.Output.inner().W
	out, err := m.previewer.Render(m.ctx, m.lastHTML)
	if err != nil {
		m.setStatus(statusError, "preview: %v", err)
		return
	}
	m.preview.SetContent(out)
}

func (m *RootModel) treePaneFor(mode playground.ViewMode) *treePane {
	if mode == playground.ViewMetadata {
		return m.meta
	}
	return m.tree
}

func (m *RootModel) baseData(mode playground.ViewMode) (value.Value, bool) {
	out := m.shell.Outputs()
	if mode == playground.ViewMetadata {
		return out.Metadata, out.HasMetadata()
	}
	return out.Tree, out.Tree != nil
}

// refreshTree rebuilds a tree view, applying its query when one is set.
func (m *RootModel) refreshTree(mode playground.ViewMode, data value.Value, ok bool) {
	p := m.treePaneFor(mode)
	expr := m.queries[mode]
	p.query = expr
	if expr == "" || !ok {
		p.SetData(data, ok)
		return
	}
	res, err := m.evaluate(expr, data)
	if err != nil {
		m.setStatus(statusError, "query: %v", err)
		p.SetData(data, ok)
		return
	}
	p.SetData(res, true)
}

func (m *RootModel) queryEvaluator() (*query.Evaluator, error) {
	if m.evaluator == nil {
		ev, err := query.NewEvaluator()
		if err != nil {
			return nil, err
		}
		m.evaluator = ev
	}
	return m.evaluator, nil
}

func (m *RootModel) evaluate(expr string, data value.Value) (value.Value, error) {
	ev, err := m.queryEvaluator()
	if err != nil {
		return nil, err
	}
	return ev.Evaluate(expr, data)
}

func (m *RootModel) outputPane() ChildModel {
	switch m.shell.Mode() {
	case playground.ViewMetadata:
		return m.meta
	case playground.ViewHTML:
		return m.html
	case playground.ViewPreview:
		return m.preview
	default:
		return m.tree
	}
}

func (m *RootModel) focusedPane() ChildModel {
	switch m.focus {
	case focusInput:
		return m.input
	case focusOptions:
		return m.options
	default:
		return m.outputPane()
	}
}

func (m *RootModel) setFocus(f focusArea) {
	if f == focusOptions && !m.showOptions {
		f = focusOutput
	}
	for _, p := range []ModelWithFocus{m.input, m.tree, m.meta, m.html, m.preview, m.options} {
		p.Blur()
	}
	m.focus = f
	if p, ok := m.focusedPane().(ModelWithFocus); ok {
		p.Focus()
	}
}

func (m *RootModel) setMode(mode playground.ViewMode) {
	m.shell.SetMode(mode)
	m.showHelp = false
	if m.focus == focusOutput {
		m.setFocus(focusOutput)
	}
}

func (m *RootModel) relayout() {
	m.layout = computeLayout(m.width, m.height, m.cfg.InputPercent, m.showOptions, m.options.Height(), m.promptActive)
	in := m.layout.Input.inner()
	m.input.SetSize(in.W, in.H)
	out := m.layout.Output.inner()
	for _, p := range []ModelWithSize{m.tree, m.meta, m.html, m.preview} {
		p.SetSize(out.W, out.H)
	}
	m.options.SetSize(m.layout.Options.inner().W, m.options.Height())
	m.prompt.SetWidth(max(m.width-3, 1))
}

// Update routes input to the focused pane and applies global actions.
func (m *RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resized := msg.Width != m.width
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		if resized {
			m.renderPreview()
		}

	case highlightedMsg:
		if msg.Gen == m.htmlWant {
			m.applyHighlight(msg.Result)
		}

	case viewer.ActivatedMsg:
		if m.input.Focused() {
			m.setFocus(focusInput)
		}
		cmds = append(cmds, m.input.ed.AnimateCmd())

	case editor.ScrollTickMsg:
		_, cmd := m.input.Update(msg)
		cmds = append(cmds, cmd)

	case optionToggledMsg:
		m.toggleOption(msg.Flag)

	case tea.PasteMsg:
		if m.promptActive {
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			cmds = append(cmds, cmd)
		} else if m.focus == focusInput {
			_, cmd := m.input.Update(msg)
			cmds = append(cmds, cmd)
			m.syncInput()
		}

	case tea.MouseClickMsg:
		cmds = append(cmds, m.handleClick(msg))

	case tea.MouseWheelMsg:
		if p := m.paneAt(msg.X, msg.Y); p != nil {
			_, cmd := p.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		if m.promptActive {
			var cmd tea.Cmd
			m.prompt, cmd = m.prompt.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, m.takePending())
	return m, tea.Batch(cmds...)
}

// syncInput pushes editor changes into the shell.
func (m *RootModel) syncInput() {
	if v := m.input.ed.Version(); v != m.lastVersion {
		m.lastVersion = v
		m.shell.SetInput(m.input.ed.Value())
	}
}

func (m *RootModel) toggleOption(f markdown.Flag) {
	m.shell.ToggleOption(f)
	state := "off"
	if m.shell.Options().Enabled(f) {
		state = "on"
	}
	if !m.parseErr {
		m.setStatus(statusInfo, "%s %s", f.Info().Label, state)
	}
}

func (m *RootModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}
	if m.promptActive {
		return m.handlePromptKey(msg)
	}
	if m.showHelp {
		switch key {
		case "esc", "f1", "?", "q":
			m.showHelp = false
			return nil
		}
	}
	if m.focus == focusOptions && key == "esc" {
		return m.act(ActionOptions)
	}

	if action := actionFor(key, m.focus == focusInput); action != ActionNone {
		return m.act(action)
	}

	if m.showHelp && m.focus != focusInput {
		return nil
	}
	_, cmd := m.focusedPane().Update(msg)
	if m.focus == focusInput {
		m.syncInput()
	}
	return cmd
}

func (m *RootModel) act(a Action) tea.Cmd {
	switch a {
	case ActionQuit:
		return m.quit()
	case ActionHelp:
		m.showHelp = !m.showHelp
	case ActionCopy:
		m.copy()
	case ActionClear:
		m.clear()
	case ActionOptions:
		m.showOptions = !m.showOptions
		m.relayout()
		if m.showOptions {
			m.setFocus(focusOptions)
		} else if m.focus == focusOptions {
			m.setFocus(focusOutput)
		}
	case ActionFocusNext:
		next := focusInput
		switch m.focus {
		case focusInput:
			next = focusOutput
		case focusOutput:
			if m.showOptions {
				next = focusOptions
			}
		}
		m.setFocus(next)
	case ActionFocusInput:
		m.setFocus(focusInput)
	case ActionFocusOutput:
		m.setFocus(focusOutput)
	case ActionNextView:
		m.setMode(m.shell.Mode().Next())
	case ActionPrevView:
		m.setMode(m.shell.Mode().Prev())
	case ActionViewTree:
		m.setMode(playground.ViewTree)
	case ActionViewMeta:
		m.setMode(playground.ViewMetadata)
	case ActionViewHTML:
		m.setMode(playground.ViewHTML)
	case ActionViewPreview:
		m.setMode(playground.ViewPreview)
	case ActionQuery:
		return m.openPrompt()
	}
	return nil
}

func (m *RootModel) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *RootModel) copy() {
	payload, err := m.shell.CopyPayload()
	if err != nil {
		m.setStatus(statusError, "copy failed: %v", err)
		return
	}
	if err := CopyToClipboard(payload); err != nil {
		m.setStatus(statusError, "copy failed: %v", err)
		return
	}
	what := "HTML"
	if m.shell.Mode() == playground.ViewTree {
		what = "tree JSON"
	}
	m.setStatus(statusSuccess, "copied %s (%d bytes)", what, len(payload))
}

func (m *RootModel) clear() {
	m.input.ed.Clear()
	m.lastVersion = m.input.ed.Version()
	m.shell.Clear()
	if !m.parseErr {
		m.setStatus(statusInfo, "input cleared")
	}
}

func (m *RootModel) openPrompt() tea.Cmd {
	mode := m.shell.Mode()
	if mode != playground.ViewTree && mode != playground.ViewMetadata {
		m.setStatus(statusInfo, "queries apply to the %s and %s views",
			playground.ViewTree.Title(), playground.ViewMetadata.Title())
		return nil
	}
	m.promptActive = true
	m.prompt.SetValue(m.queries[mode])
	m.prompt.CursorEnd()
	m.relayout()
	return m.prompt.Focus()
}

func (m *RootModel) closePrompt() {
	m.promptActive = false
	m.completions = nil
	m.prompt.Blur()
	m.relayout()
}

func (m *RootModel) handlePromptKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		mode := m.shell.Mode()
		delete(m.queries, mode)
		data, ok := m.baseData(mode)
		m.refreshTree(mode, data, ok)
		m.closePrompt()
		return nil
	case "enter":
		m.runQuery(strings.TrimSpace(m.prompt.Value()))
		m.closePrompt()
		return nil
	case "tab":
		m.completeQuery()
		return nil
	}
	m.completions = nil
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

// completeQuery replaces the prompt text with the next completion of the
// identifier under the cursor.
func (m *RootModel) completeQuery() {
	cur := m.prompt.Value()
	if len(m.completions) == 0 || cur != m.completions[m.completeIdx] {
		ev, err := m.queryEvaluator()
		if err != nil {
			m.setStatus(statusError, "query: %v", err)
			return
		}
		data, _ := m.baseData(m.shell.Mode())
		m.completions = ev.Complete(cur, data)
		m.completeIdx = -1
	}
	if len(m.completions) == 0 {
		m.setStatus(statusInfo, "no completions")
		return
	}
	m.completeIdx = (m.completeIdx + 1) % len(m.completions)
	m.prompt.SetValue(m.completions[m.completeIdx])
	m.prompt.CursorEnd()
	m.setStatus(statusInfo, "completion %d/%d", m.completeIdx+1, len(m.completions))
}

// runQuery evaluates expr against the current view's data and shows the
// result. An empty expression restores the unfiltered data.
func (m *RootModel) runQuery(expr string) {
	mode := m.shell.Mode()
	data, ok := m.baseData(mode)
	if expr == "" {
		delete(m.queries, mode)
		m.refreshTree(mode, data, ok)
		return
	}
	if !ok {
		m.setStatus(statusError, "query: nothing to query")
		return
	}
	if _, err := m.evaluate(expr, data); err != nil {
		m.setStatus(statusError, "query: %v", err)
		return
	}
	m.queries[mode] = expr
	m.refreshTree(mode, data, ok)
	m.setStatus(statusSuccess, "query applied; esc on the prompt clears it")
}

func (m *RootModel) paneAt(x, y int) ChildModel {
	switch {
	case m.layout.Input.contains(x, y):
		return m.input
	case m.showOptions && m.layout.Options.contains(x, y):
		return m.options
	case m.layout.Output.contains(x, y):
		if m.showHelp {
			return nil
		}
		return m.outputPane()
	}
	return nil
}

func (m *RootModel) handleClick(msg tea.MouseClickMsg) tea.Cmd {
	if msg.Button != tea.MouseLeft {
		return nil
	}
	if m.layout.Header.contains(msg.X, msg.Y) {
		for _, t := range m.tabs {
			if msg.X >= t.from && msg.X < t.to {
				m.setMode(t.mode)
				m.setFocus(focusOutput)
				return nil
			}
		}
		return nil
	}

	var region rect
	var area focusArea
	switch {
	case m.layout.Input.contains(msg.X, msg.Y):
		region, area = m.layout.Input, focusInput
	case m.showOptions && m.layout.Options.contains(msg.X, msg.Y):
		region, area = m.layout.Options, focusOptions
	case m.layout.Output.contains(msg.X, msg.Y):
		if m.showHelp {
			m.showHelp = false
			return nil
		}
		region, area = m.layout.Output, focusOutput
	default:
		return nil
	}
	m.setFocus(area)
	inner := region.inner()
	if !inner.contains(msg.X, msg.Y) {
		return nil
	}
	if c, ok := m.focusedPane().(ModelWithClick); ok {
		return c.ClickAt(msg.X-inner.X, msg.Y-inner.Y)
	}
	return nil
}
