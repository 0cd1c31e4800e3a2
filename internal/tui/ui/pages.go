package ui

import "github.com/rivo/tview"

// Pages is a stack of named components on top of tview.Pages. Pushed pages
// replace the visible one; overlays are drawn over it. Components are started
// when they reach the top and stopped when they leave the stack.
type Pages struct {
	*tview.Pages
	components map[string]Component
	overlay    map[string]bool
	stack      []string
	onChange   func(stack []string)
}

// NewPages creates an empty page stack.
func NewPages() *Pages {
	return &Pages{
		Pages:      tview.NewPages(),
		components: make(map[string]Component),
		overlay:    make(map[string]bool),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Add registers a full-screen page.
func (p *Pages) Add(c Component) {
	p.components[c.Name()] = c
	p.AddPage(c.Name(), c, true, false)
}

// AddOverlay registers a page drawn on top of whatever is below it, centered
// at width x height. A zero width adds c as is, for primitives that center
// themselves.
func (p *Pages) AddOverlay(c Component, width, height int) {
	p.components[c.Name()] = c
	p.overlay[c.Name()] = true
	var prim tview.Primitive = c
	if width > 0 {
		prim = Centered(c, width, height)
	}
	p.AddPage(c.Name(), prim, true, false)
}

// Component returns the registered component called name.
func (p *Pages) Component(name string) Component {
	return p.components[name]
}

// Push shows name on top of the stack. Pushing the current page is a no-op.
func (p *Pages) Push(name string) {
	if p.Current() == name {
		return
	}
	if top := p.Current(); top != "" && !p.overlay[name] {
		p.HidePage(top)
		p.stop(top)
	}
	p.stack = append(p.stack, name)
	p.ShowPage(name)
	p.SendToFront(name)
	p.start(name)
	p.notify()
}

// Pop removes the top page and shows the previous one. The last page is never
// popped. Returns the name of the popped page, or empty.
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top)
	p.stop(top)
	p.stack = p.stack[:len(p.stack)-1]

	current := p.stack[len(p.stack)-1]
	p.ShowPage(current)
	p.SendToFront(current)
	if !p.overlay[top] {
		p.start(current)
	}
	p.notify()
	return top
}

// Current returns the name of the top page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Base returns the topmost page that is not an overlay.
func (p *Pages) Base() string {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if !p.overlay[p.stack[i]] {
			return p.stack[i]
		}
	}
	return ""
}

// Stack returns a copy of the current page stack.
func (p *Pages) Stack() []string {
	s := make([]string, len(p.stack))
	copy(s, p.stack)
	return s
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name string) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		p.HidePage(p.stack[i])
		p.stop(p.stack[i])
	}
	p.stack = []string{name}
	p.ShowPage(name)
	p.SendToFront(name)
	p.start(name)
	p.notify()
}

func (p *Pages) start(name string) {
	if c := p.components[name]; c != nil {
		c.Start()
	}
}

func (p *Pages) stop(name string) {
	if c := p.components[name]; c != nil {
		c.Stop()
	}
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}

// Centered wraps p in a flex layout that keeps it width x height in the
// middle of the screen.
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
