package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wordcollab/wordcollab/internal/word"
)

// DemoEntries is the sample list shown by the first UI prototype.
var DemoEntries = []word.Entry{
	{Text: "Hello", Collaborators: []string{"Alice", "Bob"}},
	{Text: "World", Collaborators: []string{"Charlie", "Diana", "Eve"}},
	{Text: "Collaboration", Collaborators: []string{"Frank"}},
	{Text: "Team", Collaborators: []string{}},
}

// SeedReport counts what Seed changed.
type SeedReport struct {
	WordsCreated       int `json:"wordsCreated"`
	WordsExisting      int `json:"wordsExisting"`
	CollaboratorsAdded int `json:"collaboratorsAdded"`
}

// Seed makes every entry present in the store. Words and collaborators that
// already exist are left as they are, so running it twice is harmless.
func Seed(ctx context.Context, svc Service, entries []word.Entry) (*SeedReport, error) {
	existing, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	byText := make(map[string]*word.Word, len(existing))
	for _, w := range existing {
		byText[w.Text] = w
	}

	rep := &SeedReport{}
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		w, ok := byText[text]
		if ok {
			rep.WordsExisting++
		} else {
			w, err = svc.Create(ctx, text)
			switch {
			case errors.Is(err, ErrInvalidInput):
				continue
			case err != nil:
				return rep, err
			}
			byText[text] = w
			rep.WordsCreated++
		}
		for _, name := range e.Collaborators {
			_, err := svc.AddCollaborator(ctx, w.ID.Hex(), name)
			switch {
			case err == nil:
				rep.CollaboratorsAdded++
			case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidInput):
			default:
				return rep, err
			}
		}
	}
	return rep, nil
}
