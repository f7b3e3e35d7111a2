package repository

import (
	"context"
	"sync"

	"github.com/wordcollab/wordcollab/internal/word"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used by tests and local runs.
// List returns words in insertion order.
type MemoryRepo struct {
	mu     sync.RWMutex
	store  map[primitive.ObjectID]*word.Word
	byText map[string]primitive.ObjectID
	order  []primitive.ObjectID
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store:  make(map[primitive.ObjectID]*word.Word),
		byText: make(map[string]primitive.ObjectID),
	}
}

func (m *MemoryRepo) Insert(_ context.Context, w *word.Word) (*word.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byText[w.Text]; ok {
		return nil, ErrDuplicate
	}
	stored := w.Clone().Normalize()
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	m.store[stored.ID] = stored
	m.byText[stored.Text] = stored.ID
	m.order = append(m.order, stored.ID)
	return stored.Clone(), nil
}

func (m *MemoryRepo) Get(_ context.Context, id primitive.ObjectID) (*word.Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.store[id]; ok {
		return w.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*word.Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*word.Word, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) AppendCollaborator(_ context.Context, id primitive.ObjectID, name string) (*word.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if w.HasCollaborator(name) {
		return nil, ErrDuplicate
	}
	w.Collaborators = append(w.Collaborators, name)
	return w.Clone(), nil
}
