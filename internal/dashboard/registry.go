package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrWorkspaceNotFound is returned for an unknown workspace ID.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrWorkspaceLimit is returned when the registry is full.
	ErrWorkspaceLimit = errors.New("workspace limit reached")
)

// workspace guards one State. Updates to different workspaces do not
// contend with each other.
type workspace struct {
	mu    sync.Mutex
	state State
}

// Registry holds the open workspaces in memory.
type Registry struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*workspace
	limit      int
}

// NewRegistry returns a registry holding at most limit workspaces. A
// non-positive limit means unbounded.
func NewRegistry(limit int) *Registry {
	return &Registry{
		workspaces: make(map[uuid.UUID]*workspace),
		limit:      limit,
	}
}

// Add stores s under s.ID.
func (r *Registry) Add(s State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[s.ID]; ok {
		return fmt.Errorf("add workspace %s: duplicate id", s.ID)
	}
	if r.limit > 0 && len(r.workspaces) >= r.limit {
		return ErrWorkspaceLimit
	}
	r.workspaces[s.ID] = &workspace{state: s}
	return nil
}

func (r *Registry) lookup(id uuid.UUID) (*workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, ErrWorkspaceNotFound)
	}
	return ws, nil
}

// Get returns a snapshot of the workspace state.
func (r *Registry) Get(id uuid.UUID) (State, error) {
	ws, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state, nil
}

// Update applies fn to a copy of the workspace state under the workspace
// lock. The copy is stored only when fn succeeds, so a failed action
// leaves the workspace as it was.
func (r *Registry) Update(id uuid.UUID, fn func(*State) error) (State, error) {
	ws, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	next := ws.state
	if err := fn(&next); err != nil {
		return ws.state, err
	}
	next.ID = ws.state.ID
	ws.state = next
	return next, nil
}

func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, ErrWorkspaceNotFound)
	}
	delete(r.workspaces, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}
