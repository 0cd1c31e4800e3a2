package ui

import (
	"reflect"
	"testing"

	"github.com/rivo/tview"
)

type fakePage struct {
	*tview.Box
	name          string
	starts, stops int
}

func (f *fakePage) Name() string      { return f.name }
func (f *fakePage) Start()            { f.starts++ }
func (f *fakePage) Stop()             { f.stops++ }
func (f *fakePage) Hints() []MenuHint { return nil }

func newFake(name string) *fakePage { return &fakePage{Box: tview.NewBox(), name: name} }

func TestPushPopLifecycle(t *testing.T) {
	p := NewPages()
	list, detail := newFake("users"), newFake("user")
	p.Add(list)
	p.Add(detail)

	var changes [][]string
	p.SetOnChange(func(s []string) { changes = append(changes, s) })

	p.Reset("users")
	p.Push("user")
	p.Push("user")
	if got := p.Stack(); !reflect.DeepEqual(got, []string{"users", "user"}) {
		t.Fatalf("stack = %v", got)
	}
	if list.stops != 1 || detail.starts != 1 {
		t.Errorf("list stops=%d detail starts=%d", list.stops, detail.starts)
	}

	if got := p.Pop(); got != "user" {
		t.Errorf("Pop() = %q", got)
	}
	if list.starts != 2 || detail.stops != 1 {
		t.Errorf("list starts=%d detail stops=%d", list.starts, detail.stops)
	}
	if got := p.Pop(); got != "" {
		t.Errorf("popped the last page: %q", got)
	}
	if len(changes) != 3 {
		t.Errorf("changes = %v", changes)
	}
}

func TestOverlayKeepsBaseRunning(t *testing.T) {
	p := NewPages()
	list, confirm := newFake("videos"), newFake("confirm")
	p.Add(list)
	p.AddOverlay(confirm, 40, 7)

	p.Reset("videos")
	p.Push("confirm")
	if p.Base() != "videos" || p.Current() != "confirm" {
		t.Fatalf("base=%q current=%q", p.Base(), p.Current())
	}
	if list.stops != 0 {
		t.Error("overlay stopped the base page")
	}
	p.Pop()
	if list.starts != 1 {
		t.Errorf("base restarted after overlay: starts=%d", list.starts)
	}
}

func TestResetStopsEverything(t *testing.T) {
	p := NewPages()
	a, b := newFake("shloks"), newFake("login")
	p.Add(a)
	p.Add(b)

	p.Reset("shloks")
	p.Reset("login")
	if a.stops != 1 || p.Depth() != 1 || p.Current() != "login" {
		t.Errorf("stops=%d stack=%v", a.stops, p.Stack())
	}
}
