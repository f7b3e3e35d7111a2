package repository

import (
	"context"
	"errors"

	"github.com/wordcollab/wordcollab/internal/word"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("word not found")
	ErrDuplicate = errors.New("duplicate value")
)

// Repository persists words. Uniqueness of text and of collaborator names
// is enforced here, atomically, not by callers.
type Repository interface {
	// Insert stores w and returns the document as read back from the store.
	// ErrDuplicate when the text already exists.
	Insert(ctx context.Context, w *word.Word) (*word.Word, error)
	Get(ctx context.Context, id primitive.ObjectID) (*word.Word, error)
	List(ctx context.Context) ([]*word.Word, error)
	// AppendCollaborator pushes name onto the word's list unless it is already there.
	// ErrNotFound for an unknown id, ErrDuplicate when the name is present.
	AppendCollaborator(ctx context.Context, id primitive.ObjectID, name string) (*word.Word, error)
}
