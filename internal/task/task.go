// Package task is a small registry of named actions run by `hatch run`.
package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrTaskNotFound is returned when running or looking up an unknown task.
var ErrTaskNotFound = errors.New("task not found")

// Action is the body of a task.
type Action func(ctx context.Context, args []string) error

// Task is a named action.
type Task struct {
	Name        string
	Description string
	Action      Action
}

// Manager holds the tasks of an environment.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{tasks: make(map[string]*Task)}
}

// Add registers t. Names must be unique.
func (m *Manager) Add(t *Task) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Action == nil {
		return fmt.Errorf("task %q: action is required", t.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.Name]; ok {
		return fmt.Errorf("task %q is already defined", t.Name)
	}
	m.tasks[t.Name] = t
	return nil
}

// Get returns the task called name.
func (m *Manager) Get(name string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	return t, nil
}

// List returns all tasks sorted by name.
func (m *Manager) List() []*Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run runs the task called name with args.
func (m *Manager) Run(ctx context.Context, name string, args []string) error {
	t, err := m.Get(name)
	if err != nil {
		return err
	}
	return t.Action(ctx, args)
}
