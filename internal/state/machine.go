package state

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/shlokadmin/internal/bus"
)

// Table lists, for each state, the states it may move to.
type Table[S ~string] map[S][]S

// Change is the payload of a "<namespace>.state_changed" event.
type Change[S ~string] struct {
	From S
	To   S
}

// Machine tracks and enforces transitions over a fixed table.
type Machine[S ~string] struct {
	mu        sync.RWMutex
	current   S
	table     Table[S]
	bus       *bus.Bus
	namespace string
}

// NewMachine creates a machine in the initial state. Transitions are published
// on b (may be nil) under namespace.
func NewMachine[S ~string](initial S, table Table[S], b *bus.Bus, namespace string) *Machine[S] {
	return &Machine[S]{
		current:   initial,
		table:     table,
		bus:       b,
		namespace: namespace,
	}
}

// Current returns the current state.
func (m *Machine[S]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Can reports whether moving to `to` is allowed from the current state.
func (m *Machine[S]) Can(to S) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.table[m.current], to)
}

// Transition moves to a new state. Returns error if the transition is not in the table.
func (m *Machine[S]) Transition(to S) error {
	m.mu.Lock()
	from := m.current
	if !slices.Contains(m.table[from], to) {
		m.mu.Unlock()
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	m.current = to
	m.mu.Unlock()

	m.bus.Emit(bus.Topic(m.namespace, "state_changed"), Change[S]{From: from, To: to})
	return nil
}
