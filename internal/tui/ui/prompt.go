package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode selects what a submitted prompt line means.
type PromptMode int

const (
	PromptCommand PromptMode = iota
	PromptFilter
)

var promptLabels = map[PromptMode][2]string{
	PromptCommand: {":", " Command "},
	PromptFilter:  {"/", " Search "},
}

// Prompt is the input bar shared by command mode and search. Command mode
// completes known command names and recalls earlier commands with ctrl-p and
// ctrl-n.
type Prompt struct {
	*tview.InputField
	mode     PromptMode
	commands []string
	history  History

	onSubmit func(mode PromptMode, text string)
	onCancel func()
}

// NewPrompt creates a prompt completing commands.
func NewPrompt(theme *Theme, commands []string) *Prompt {
	p := &Prompt{InputField: tview.NewInputField(), commands: commands}
	p.SetBorder(true)
	p.SetBorderColor(theme.BorderFocusColor)
	p.SetBackgroundColor(theme.BgColor)
	p.SetFieldBackgroundColor(theme.BgColor)
	p.SetFieldTextColor(theme.FgColor)
	p.SetLabelColor(theme.MenuKeyColor)

	p.SetAutocompleteFunc(func(text string) []string {
		if p.mode != PromptCommand {
			return nil
		}
		return Complete(p.commands, text)
	})
	p.SetInputCapture(p.recall)
	p.SetDoneFunc(p.done)
	return p
}

func (p *Prompt) recall(ev *tcell.EventKey) *tcell.EventKey {
	if p.mode != PromptCommand {
		return ev
	}
	switch ev.Key() {
	case tcell.KeyCtrlP:
		if s, ok := p.history.Prev(); ok {
			p.SetText(s)
		}
		return nil
	case tcell.KeyCtrlN:
		s, _ := p.history.Next()
		p.SetText(s)
		return nil
	}
	return ev
}

func (p *Prompt) done(key tcell.Key) {
	text := strings.TrimSpace(p.GetText())
	p.SetText("")
	switch key {
	case tcell.KeyEnter:
		// An empty search clears the filter; an empty command is ignored.
		if text == "" && p.mode == PromptCommand {
			return
		}
		if p.mode == PromptCommand {
			p.history.Push(text)
		}
		if p.onSubmit != nil {
			p.onSubmit(p.mode, text)
		}
	case tcell.KeyEscape:
		if p.onCancel != nil {
			p.onCancel()
		}
	}
}

// SetOnSubmit sets the callback receiving a submitted line.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) { p.onSubmit = fn }

// SetOnCancel sets the callback for esc.
func (p *Prompt) SetOnCancel(fn func()) { p.onCancel = fn }

// Activate switches to mode and pre-fills text.
func (p *Prompt) Activate(mode PromptMode, text string) {
	p.mode = mode
	p.history.Reset()
	p.SetText(text)
	l := promptLabels[mode]
	p.SetLabel(l[0])
	p.SetTitle(l[1])
}

// Mode returns the current mode.
func (p *Prompt) Mode() PromptMode { return p.mode }

// Complete returns the commands starting with prefix, or nil when prefix is
// empty or already a full command.
func Complete(commands []string, prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	var out []string
	for _, c := range commands {
		if c == prefix {
			return nil
		}
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// HistorySize bounds the remembered commands.
const HistorySize = 50

// History is a bounded list of submitted commands with a recall cursor.
type History struct {
	entries []string
	cursor  int
}

// Push records s unless it repeats the latest entry.
func (h *History) Push(s string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != s {
		h.entries = append(h.entries, s)
		if len(h.entries) > HistorySize {
			h.entries = h.entries[1:]
		}
	}
	h.Reset()
}

// Reset moves the cursor past the newest entry.
func (h *History) Reset() { h.cursor = len(h.entries) }

// Prev steps back one entry. It reports false at the oldest one.
func (h *History) Prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next steps forward one entry. Past the newest it returns "" and false.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries)-1 {
		h.cursor = len(h.entries)
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}
