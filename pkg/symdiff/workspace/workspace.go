package workspace

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/randalmurphal/symdiff/pkg/symdiff/tree"
)

var (
	// ErrNotFound indicates no tree is defined under a name.
	ErrNotFound = errors.New("tree not defined")

	// ErrInvalidDefinition indicates an empty name or a nil tree.
	ErrInvalidDefinition = errors.New("invalid definition")
)

// Workspace maps names to trees.
type Workspace struct {
	mu    sync.RWMutex
	trees map[string]*tree.Tree
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		trees: make(map[string]*tree.Tree),
	}
}

// Define stores t under name, replacing any previous definition.
// The workspace takes ownership of t; callers must not use it afterwards.
func (w *Workspace) Define(name string, t *tree.Tree) error {
	if name == "" || t == nil {
		return ErrInvalidDefinition
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trees[name] = t
	return nil
}

// Get returns a clone of the tree defined under name.
func (w *Workspace) Get(name string) (*tree.Tree, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.trees[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return t.Clone()
}

// Has reports whether name is defined.
func (w *Workspace) Has(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.trees[name]
	return ok
}

// Delete removes a definition. Deleting an undefined name is a no-op.
func (w *Workspace) Delete(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.trees, name)
}

// Names returns the defined names in sorted order.
func (w *Workspace) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.trees))
	for name := range w.trees {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of definitions.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.trees)
}

// GetOrCreate returns a clone of the tree defined under name, first defining
// it with factory if it doesn't exist. A factory error leaves name undefined.
func (w *Workspace) GetOrCreate(name string, factory func() (*tree.Tree, error)) (*tree.Tree, error) {
	// Fast path: check if already exists
	w.mu.RLock()
	t, ok := w.trees[name]
	if ok {
		defer w.mu.RUnlock()
		return t.Clone()
	}
	w.mu.RUnlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	// Double-check after acquiring write lock
	if t, ok := w.trees[name]; ok {
		return t.Clone()
	}

	if name == "" {
		return nil, ErrInvalidDefinition
	}
	t, err := factory()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrInvalidDefinition
	}
	w.trees[name] = t
	return t.Clone()
}
