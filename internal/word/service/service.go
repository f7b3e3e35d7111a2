package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wordcollab/wordcollab/internal/word"
	"github.com/wordcollab/wordcollab/internal/word/repository"
	"github.com/wordcollab/wordcollab/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service defines the word operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]*word.Word, error)
	Get(ctx context.Context, id string) (*word.Word, error)
	Create(ctx context.Context, text string) (*word.Word, error)
	CreateMany(ctx context.Context, texts []string) (*BulkResult, error)
	AddCollaborator(ctx context.Context, wordID, name string) (*word.Word, error)
}

// Skipped is a bulk entry that was not created, with the reason.
type Skipped struct {
	Word  string `json:"word"`
	Error string `json:"error"`
}

// BulkResult reports the outcome of CreateMany.
type BulkResult struct {
	Created []*word.Word `json:"created"`
	Skipped []Skipped    `json:"skipped"`
}

// Store validates input and applies the word invariants on top of a Repository.
type Store struct {
	repo repository.Repository
	now  func() time.Time
}

func NewStore(repo repository.Repository) *Store {
	return &Store{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) List(ctx context.Context) ([]*word.Word, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, unavailable("list words", err)
	}
	return list, nil
}

// Get fetches one word. An id that is not a valid ObjectID cannot exist, so it is NotFound.
func (s *Store) Get(ctx context.Context, id string) (*word.Word, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrWordNotFound
	}
	w, err := s.repo.Get(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWordNotFound
		}
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return nil, unavailable("get word", err)
	}
	return w, nil
}

func (s *Store) Create(ctx context.Context, text string) (*word.Word, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrWordRequired
	}
	w, err := s.repo.Insert(ctx, &word.Word{
		ID:            primitive.NewObjectID(),
		Text:          text,
		Collaborators: []string{},
		CreatedAt:     s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWordExists
		}
		metrics.StoreErrors.WithLabelValues("create").Inc()
		return nil, unavailable("create word", err)
	}
	metrics.WordsCreated.Inc()
	return w, nil
}

// CreateMany creates each text in order. Invalid or duplicate entries are
// skipped; a store failure aborts the batch and returns what was created so far.
func (s *Store) CreateMany(ctx context.Context, texts []string) (*BulkResult, error) {
	res := &BulkResult{Created: []*word.Word{}, Skipped: []Skipped{}}
	for _, t := range texts {
		w, err := s.Create(ctx, t)
		switch {
		case err == nil:
			res.Created = append(res.Created, w)
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
			res.Skipped = append(res.Skipped, Skipped{Word: strings.TrimSpace(t), Error: err.Error()})
		default:
			return res, err
		}
	}
	if len(res.Created) == 0 && len(res.Skipped) == 0 {
		return res, ErrNoWordsGiven
	}
	return res, nil
}

func (s *Store) AddCollaborator(ctx context.Context, wordID, name string) (*word.Word, error) {
	wordID = strings.TrimSpace(wordID)
	name = strings.TrimSpace(name)
	if wordID == "" || name == "" {
		return nil, ErrCollaboratorRequired
	}
	oid, err := primitive.ObjectIDFromHex(wordID)
	if err != nil {
		return nil, ErrWordNotFound
	}
	w, err := s.repo.AppendCollaborator(ctx, oid, name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrWordNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCollaboratorExists
		}
		metrics.StoreErrors.WithLabelValues("add_collaborator").Inc()
		return nil, unavailable("add collaborator", err)
	}
	metrics.CollaboratorsAdded.Inc()
	return w, nil
}
