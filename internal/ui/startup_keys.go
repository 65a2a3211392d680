package ui

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// maxDrainSteps bounds how many follow-up messages one startup key may
// produce, so animations settle without looping forever.
const maxDrainSteps = 256

// ApplyStartupKeys feeds Vim-like key tokens and literal text to the model
// before the program starts, running the commands they return.
// Examples: "<F3>", "<Tab>jj<CR>", "\<literal>".
func ApplyStartupKeys(m *RootModel, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// A leading backslash forces literal text.
		if strings.HasPrefix(token, `\`) {
			sendText(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, seg := range parseTokenSegments(token) {
			if !seg.isVimKey {
				sendText(m, seg.text)
				continue
			}
			msgs, ok := keyMsgsFromToken(seg.text)
			if !ok {
				sendText(m, seg.text)
				continue
			}
			for _, msg := range msgs {
				send(m, msg)
			}
		}
	}
}

func sendText(m *RootModel, s string) {
	for _, r := range s {
		send(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func send(m *RootModel, msg tea.Msg) {
	_, cmd := m.Update(msg)
	steps := 0
	drain(m, cmd, &steps)
}

// drain runs cmd and feeds its messages back into the model.
func drain(m *RootModel, cmd tea.Cmd, steps *int) {
	if cmd == nil || *steps >= maxDrainSteps {
		return
	}
	*steps++
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c, steps)
		}
	case tea.QuitMsg:
	default:
		_, next := m.Update(msg)
		drain(m, next, steps)
	}
}

// tokenSegment is a parsed part of a token: a <key> or literal text.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "<F1>abc" into [<F1>, abc].
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isVimKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]tea.KeyPressMsg{
	"esc":       {Code: tea.KeyEscape},
	"escape":    {Code: tea.KeyEscape},
	"c-[":       {Code: tea.KeyEscape},
	"cr":        {Code: tea.KeyEnter},
	"enter":     {Code: tea.KeyEnter},
	"return":    {Code: tea.KeyEnter},
	"tab":       {Code: tea.KeyTab},
	"s-tab":     {Code: tea.KeyTab, Mod: tea.ModShift},
	"space":     {Code: tea.KeySpace, Text: " "},
	"bs":        {Code: tea.KeyBackspace},
	"backspace": {Code: tea.KeyBackspace},
	"del":       {Code: tea.KeyDelete},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"s-left":    {Code: tea.KeyLeft, Mod: tea.ModShift},
	"s-right":   {Code: tea.KeyRight, Mod: tea.ModShift},
	"s-up":      {Code: tea.KeyUp, Mod: tea.ModShift},
	"s-down":    {Code: tea.KeyDown, Mod: tea.ModShift},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
	"c-home":    {Code: tea.KeyHome, Mod: tea.ModCtrl},
	"c-end":     {Code: tea.KeyEnd, Mod: tea.ModCtrl},
	"pgup":      {Code: tea.KeyPgUp},
	"pgdown":    {Code: tea.KeyPgDown},
}

var functionKeys = []rune{
	tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5, tea.KeyF6,
	tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10, tea.KeyF11, tea.KeyF12,
}

// keyMsgsFromToken parses "<Esc>", "<CR>", "<C-y>", "<F3>" and similar.
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	lower := strings.ToLower(inner)
	if msg, ok := namedKeys[lower]; ok {
		return []tea.KeyPressMsg{msg}, true
	}
	if rest, ok := strings.CutPrefix(lower, "c-"); ok && len([]rune(rest)) == 1 {
		return []tea.KeyPressMsg{{Code: []rune(rest)[0], Mod: tea.ModCtrl}}, true
	}
	if rest, ok := strings.CutPrefix(lower, "f"); ok {
		for i, code := range functionKeys {
			if rest == strconv.Itoa(i+1) {
				return []tea.KeyPressMsg{{Code: code}}, true
			}
		}
	}
	return nil, false
}
