package ui

// Action is a UI command triggered by a key.
type Action string

const (
	ActionNone        Action = ""
	ActionQuit        Action = "quit"
	ActionHelp        Action = "help"
	ActionCopy        Action = "copy"
	ActionClear       Action = "clear"
	ActionOptions     Action = "options"
	ActionFocusNext   Action = "focus_next"
	ActionFocusInput  Action = "focus_input"
	ActionFocusOutput Action = "focus_output"
	ActionNextView    Action = "next_view"
	ActionPrevView    Action = "prev_view"
	ActionViewTree    Action = "view_tree"
	ActionViewMeta    Action = "view_metadata"
	ActionViewHTML    Action = "view_html"
	ActionViewPreview Action = "view_preview"
	ActionQuery       Action = "query"
)

// GlobalKeyBindings work regardless of which pane has focus, including the
// editor. They use modifiers or function keys so typing is never captured.
var GlobalKeyBindings = map[string]Action{
	"ctrl+c": ActionQuit,
	"ctrl+q": ActionQuit,
	"f1":     ActionHelp,
	"ctrl+y": ActionCopy,
	"ctrl+l": ActionClear,
	"ctrl+o": ActionOptions,
	"f2":     ActionViewTree,
	"f3":     ActionViewMeta,
	"f4":     ActionViewHTML,
	"f5":     ActionViewPreview,
	"ctrl+n": ActionNextView,
	"ctrl+p": ActionPrevView,
}

// PaneKeyBindings apply when an output pane or the options panel has focus.
var PaneKeyBindings = map[string]Action{
	"q":         ActionQuit,
	"?":         ActionHelp,
	"y":         ActionCopy,
	"o":         ActionOptions,
	"tab":       ActionFocusNext,
	"shift+tab": ActionFocusNext,
	"i":         ActionFocusInput,
	"1":         ActionViewTree,
	"2":         ActionViewMeta,
	"3":         ActionViewHTML,
	"4":         ActionViewPreview,
	"]":         ActionNextView,
	"[":         ActionPrevView,
	":":         ActionQuery,
}

// InputKeyBindings apply while the editor has focus.
var InputKeyBindings = map[string]Action{
	"esc": ActionFocusOutput,
}

// actionFor resolves a key for the given focus.
func actionFor(key string, inInput bool) Action {
	if a, ok := GlobalKeyBindings[key]; ok {
		return a
	}
	if inInput {
		return InputKeyBindings[key]
	}
	return PaneKeyBindings[key]
}

// helpRow is one line of the help screen.
type helpRow struct {
	Keys string
	Desc string
}

func helpSections() []struct {
	Title string
	Rows  []helpRow
} {
	return []struct {
		Title string
		Rows  []helpRow
	}{
		{"Global", []helpRow{
			{"ctrl+c ctrl+q", "quit"},
			{"f1", "toggle help"},
			{"f2 f3 f4 f5", "AST, frontmatter, HTML, preview"},
			{"ctrl+n ctrl+p", "next/previous view"},
			{"ctrl+y", "copy tree JSON or HTML"},
			{"ctrl+l", "clear input"},
			{"ctrl+o", "show/hide parser options"},
		}},
		{"Input", []helpRow{
			{"esc", "leave the editor"},
			{"shift+arrows", "select text"},
		}},
		{"Output", []helpRow{
			{"i tab", "focus editor / next pane"},
			{"1-4 [ ]", "switch view"},
			{"j/k", "move"},
			{"space h/l", "collapse/expand node"},
			{"E C", "expand/collapse all"},
			{"enter click", "select node source"},
			{":", "query with a CEL expression"},
			{"y", "copy"},
			{"o", "parser options"},
			{"q", "quit"},
		}},
		{"Query", []helpRow{
			{"tab", "complete field or function"},
			{"enter", "apply"},
			{"esc", "clear the query"},
		}},
		{"Options", []helpRow{
			{"j/k", "move"},
			{"space enter", "toggle option"},
			{"esc o", "close"},
		}},
	}
}
