package word

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Word is one distinct piece of text plus the names collaborating on it.
// The text is stored under "word" to stay compatible with existing collections.
type Word struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	Text          string             `json:"text" bson:"word"`
	Collaborators []string           `json:"collaborators" bson:"collaborators"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// HasCollaborator reports whether name is already on the list (exact match).
func (w *Word) HasCollaborator(name string) bool {
	for _, c := range w.Collaborators {
		if c == name {
			return true
		}
	}
	return false
}

// Normalize makes a nil collaborator list encode as [] rather than null.
func (w *Word) Normalize() *Word {
	if w.Collaborators == nil {
		w.Collaborators = []string{}
	}
	return w
}

// Clone returns a deep copy so callers can't mutate stored state.
func (w *Word) Clone() *Word {
	cp := *w
	cp.Collaborators = append([]string{}, w.Collaborators...)
	return &cp
}

// Entry is a word with the collaborators it should carry, used for seeding and restores.
type Entry struct {
	Text          string   `json:"text"`
	Collaborators []string `json:"collaborators"`
}

// CreateWordRequest is the body of POST /words.
type CreateWordRequest struct {
	Word string `json:"word" binding:"required"`
}

// AddCollaboratorRequest is the body of POST /collaborate.
type AddCollaboratorRequest struct {
	WordID string `json:"wordId" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// BulkCreateRequest is the body of POST /words/bulk: a comma-separated list.
type BulkCreateRequest struct {
	Words string `json:"words" binding:"required"`
}

// SplitList splits a comma-separated list, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
