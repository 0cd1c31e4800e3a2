package views

import (
	"strconv"
	"strings"

	"github.com/matheus3301/shlokadmin/internal/model"
	"github.com/matheus3301/shlokadmin/internal/tui/ui"
	"github.com/rivo/tview"
)

func newForm(theme *ui.Theme, title string) *tview.Form {
	f := tview.NewForm()
	f.SetBorder(true)
	f.SetBorderColor(theme.BorderFocusColor)
	f.SetTitle(" " + title + " ")
	f.SetTitleColor(theme.TitleColor)
	f.SetBackgroundColor(theme.BgColor)
	f.SetLabelColor(theme.FgColor)
	f.SetFieldBackgroundColor(theme.FieldBgColor)
	f.SetFieldTextColor(theme.CounterColor)
	f.SetButtonBackgroundColor(theme.ButtonBgColor)
	f.SetButtonTextColor(theme.TableCursorFg)
	return f
}

func field(label string, width int) *tview.InputField {
	return tview.NewInputField().SetLabel(label).SetFieldWidth(width)
}

// ShlokForm edits one content record in a modal.
type ShlokForm struct {
	*tview.Form
	chapter, number, speaker, theme, video *tview.InputField
	summary                                *tview.TextArea

	row    int
	onSave func(row int, s model.Shlok)
	onDone func()
}

// NewShlokForm creates the edit modal.
func NewShlokForm(theme *ui.Theme) *ShlokForm {
	sf := &ShlokForm{
		Form:    newForm(theme, "Edit Shlok"),
		chapter: field("Chapter", 30),
		number:  field("Shlok", 6).SetAcceptanceFunc(tview.InputFieldInteger),
		speaker: field("Speaker", 30),
		theme:   field("Theme", 30),
		video:   field("Video file", 40),
		summary: tview.NewTextArea().SetLabel("Summary").SetSize(5, 0),
	}
	sf.AddFormItem(sf.chapter).
		AddFormItem(sf.number).
		AddFormItem(sf.speaker).
		AddFormItem(sf.theme).
		AddFormItem(sf.summary).
		AddFormItem(sf.video).
		AddButton("Save", sf.save).
		AddButton("Cancel", sf.cancel)
	sf.SetCancelFunc(sf.cancel)
	return sf
}

// SetOnSave sets the callback receiving the edited record and its row.
func (sf *ShlokForm) SetOnSave(fn func(row int, s model.Shlok)) { sf.onSave = fn }

// SetOnDone sets the callback closing the modal.
func (sf *ShlokForm) SetOnDone(fn func()) { sf.onDone = fn }

// Edit fills the form with s, shown at row.
func (sf *ShlokForm) Edit(row int, s model.Shlok) {
	sf.row = row
	sf.chapter.SetText(s.ChapterName)
	sf.number.SetText(strconv.Itoa(s.Shlok))
	sf.speaker.SetText(s.Speaker)
	sf.theme.SetText(s.Theme)
	sf.summary.SetText(s.Summary, false)
	sf.video.SetText(s.VideoFile)
	sf.SetFocus(0)
}

// Value returns the record as currently entered.
func (sf *ShlokForm) Value() model.Shlok {
	n, _ := strconv.Atoi(sf.number.GetText())
	return model.Shlok{
		ChapterName: strings.TrimSpace(sf.chapter.GetText()),
		Shlok:       n,
		Speaker:     strings.TrimSpace(sf.speaker.GetText()),
		Theme:       strings.TrimSpace(sf.theme.GetText()),
		Summary:     strings.TrimSpace(sf.summary.GetText()),
		VideoFile:   strings.TrimSpace(sf.video.GetText()),
	}
}

func (sf *ShlokForm) save() {
	if sf.onSave != nil {
		sf.onSave(sf.row, sf.Value())
	}
}

func (sf *ShlokForm) cancel() {
	if sf.onDone != nil {
		sf.onDone()
	}
}

// Name implements Component.
func (sf *ShlokForm) Name() string { return PageShlokEdit }

// Start implements Component.
func (sf *ShlokForm) Start() {}

// Stop implements Component.
func (sf *ShlokForm) Stop() {}

// Hints implements Component.
func (sf *ShlokForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "tab", Description: "Next field"},
		{Key: "enter", Description: "Press button"},
		{Key: "esc", Description: "Cancel"},
	}
}

// VideoForm adds a video link or changes the URL of an existing one. The key
// is read-only when editing.
type VideoForm struct {
	*tview.Form
	key, url *tview.InputField
	editing  bool

	onSave func(editing bool, v model.VideoLink)
	onDone func()
}

// NewVideoForm creates the add/edit modal.
func NewVideoForm(theme *ui.Theme) *VideoForm {
	vf := &VideoForm{
		Form: newForm(theme, "Video Link"),
		key:  field("Key", 40),
		url:  field("URL", 60),
	}
	vf.key.SetPlaceholder("Chapter1_1.mp4")
	vf.url.SetPlaceholder("https://")
	vf.AddFormItem(vf.key).
		AddFormItem(vf.url).
		AddButton("Save", vf.save).
		AddButton("Cancel", vf.cancel)
	vf.SetCancelFunc(vf.cancel)
	return vf
}

// SetOnSave sets the callback receiving the entered link.
func (vf *VideoForm) SetOnSave(fn func(editing bool, v model.VideoLink)) { vf.onSave = fn }

// SetOnDone sets the callback closing the modal.
func (vf *VideoForm) SetOnDone(fn func()) { vf.onDone = fn }

// Add clears the form for a new link.
func (vf *VideoForm) Add() {
	vf.editing = false
	vf.SetTitle(" Add Video Link ")
	vf.key.SetDisabled(false)
	vf.key.SetText("")
	vf.url.SetText("")
	vf.SetFocus(0)
}

// Edit fills the form with v and locks the key.
func (vf *VideoForm) Edit(v model.VideoLink) {
	vf.editing = true
	vf.SetTitle(" Edit Video Link ")
	vf.key.SetText(v.Key)
	vf.key.SetDisabled(true)
	vf.url.SetText(v.URL)
	vf.SetFocus(1)
}

func (vf *VideoForm) save() {
	if vf.onSave != nil {
		vf.onSave(vf.editing, model.VideoLink{Key: vf.key.GetText(), URL: vf.url.GetText()})
	}
}

func (vf *VideoForm) cancel() {
	if vf.onDone != nil {
		vf.onDone()
	}
}

// Name implements Component.
func (vf *VideoForm) Name() string { return PageVideoForm }

// Start implements Component.
func (vf *VideoForm) Start() {}

// Stop implements Component.
func (vf *VideoForm) Stop() {}

// Hints implements Component.
func (vf *VideoForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "tab", Description: "Next field"},
		{Key: "esc", Description: "Cancel"},
	}
}

// Confirm asks a yes/no question before a destructive command.
type Confirm struct {
	*tview.Modal
	onYes  func()
	onDone func()
}

// NewConfirm creates the confirmation modal.
func NewConfirm(theme *ui.Theme) *Confirm {
	c := &Confirm{Modal: tview.NewModal()}
	c.SetBackgroundColor(theme.BgColor)
	c.SetTextColor(theme.FgColor)
	c.SetBorderColor(theme.FlashErrColor)
	c.SetButtonBackgroundColor(theme.ButtonBgColor)
	c.SetButtonTextColor(theme.TableCursorFg)
	c.AddButtons([]string{"Cancel", "Delete"})
	c.SetDoneFunc(func(_ int, label string) {
		yes := c.onYes
		c.onYes = nil
		if c.onDone != nil {
			c.onDone()
		}
		if label == "Delete" && yes != nil {
			yes()
		}
	})
	return c
}

// Ask shows question; onYes runs after the modal closes if the operator confirms.
func (c *Confirm) Ask(question string, onYes func()) {
	c.SetText(question)
	c.onYes = onYes
	c.SetFocus(0)
}

// SetOnDone sets the callback closing the modal.
func (c *Confirm) SetOnDone(fn func()) { c.onDone = fn }

// Name implements Component.
func (c *Confirm) Name() string { return PageConfirm }

// Start implements Component.
func (c *Confirm) Start() {}

// Stop implements Component.
func (c *Confirm) Stop() {}

// Hints implements Component.
func (c *Confirm) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "←/→", Description: "Choose"}, {Key: "enter", Description: "Confirm"}}
}
