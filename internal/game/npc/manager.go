package npc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cory-johannsen/melee/internal/game/dice"
	"github.com/cory-johannsen/melee/internal/game/inventory"
)

// ErrUnknownTemplate is returned when no template has the requested ID.
var ErrUnknownTemplate = errors.New("unknown npc template")

// Manager holds the loaded templates and tracks every live instance by ID.
// All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	templates map[string]*Template
	instances map[string]*Instance
	weapons   *inventory.Registry
	roller    *dice.Roller
	counter   atomic.Uint64
}

// NewManager creates a Manager that spawns from templates, arming monsters
// from weapons and rolling hit points with roller.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns an error if two templates share an ID.
func NewManager(templates []*Template, weapons *inventory.Registry, roller *dice.Roller) (*Manager, error) {
	if roller == nil {
		panic("npc: NewManager precondition violated: roller must not be nil")
	}
	m := &Manager{
		templates: make(map[string]*Template, len(templates)),
		instances: make(map[string]*Instance),
		weapons:   weapons,
		roller:    roller,
	}
	for _, t := range templates {
		if _, dup := m.templates[t.ID]; dup {
			return nil, fmt.Errorf("npc template %q registered twice", t.ID)
		}
		m.templates[t.ID] = t
	}
	return m, nil
}

// Template returns the template with the given ID.
func (m *Manager) Template(id string) (*Template, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	return t, ok
}

// TemplateIDs returns every template ID in sorted order.
func (m *Manager) TemplateIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.templates))
	for id := range m.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindTemplate returns the first template, in ID order, whose name has
// target as a case-insensitive prefix.
func (m *Manager) FindTemplate(target string) (*Template, bool) {
	lower := strings.ToLower(target)
	for _, id := range m.TemplateIDs() {
		t, _ := m.Template(id)
		if strings.HasPrefix(strings.ToLower(t.Name), lower) {
			return t, true
		}
	}
	return nil, false
}

// Spawn creates a new Instance of templateID.
//
// Postcondition: Returns a new Instance with a unique ID, or an error wrapping
// ErrUnknownTemplate.
func (m *Manager) Spawn(templateID string) (*Instance, error) {
	tmpl, ok := m.Template(templateID)
	if !ok {
		return nil, fmt.Errorf("spawning %q: %w", templateID, ErrUnknownTemplate)
	}

	n := m.counter.Add(1)
	id := fmt.Sprintf("%s-%d", tmpl.ID, n)
	inst, err := NewInstance(id, tmpl, m.weapons, m.roller)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[id] = inst
	return inst, nil
}

// Remove deletes an instance by ID.
//
// Postcondition: Returns an error if the instance is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; !ok {
		return fmt.Errorf("npc instance %q not found", id)
	}
	delete(m.instances, id)
	return nil
}

// Get returns the instance with the given ID.
//
// Postcondition: Returns (inst, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	return inst, ok
}

// Len returns the number of live instances.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.instances)
}
