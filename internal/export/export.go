package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/wordcollab/wordcollab/internal/word"
	"github.com/wordcollab/wordcollab/internal/word/service"
)

// ObjectStore is the subset of *storage.MinIOStorage the exporter needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Snapshot is the JSON document written for each export.
type Snapshot struct {
	ExportedAt time.Time    `json:"exportedAt"`
	Count      int          `json:"count"`
	Words      []*word.Word `json:"words"`
}

// Result describes a stored snapshot.
type Result struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Exporter writes word snapshots to object storage and reads them back.
type Exporter struct {
	words   service.Service
	store   ObjectStore
	expires time.Duration
	now     func() time.Time
}

func New(words service.Service, store ObjectStore) *Exporter {
	return &Exporter{words: words, store: store, expires: 15 * time.Minute, now: func() time.Time { return time.Now().UTC() }}
}

// Export uploads a snapshot of every word and returns its key and a presigned URL.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	list, err := e.words.List(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now()
	b, err := json.Marshal(Snapshot{ExportedAt: now, Count: len(list), Words: list})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	key := fmt.Sprintf("exports/words-%s-%s.json", now.Format("20060102T150405Z"), uuid.New().String())
	if err := e.store.UploadFile(ctx, key, bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	u, err := e.store.GetPresignedURL(ctx, key, e.expires)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	return &Result{Key: key, URL: u, Count: len(list)}, nil
}

// Load reads a snapshot previously written by Export.
func (e *Exporter) Load(ctx context.Context, key string) (*Snapshot, error) {
	rc, err := e.store.DownloadFile(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download snapshot %s: %w", key, err)
	}
	defer rc.Close()
	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return &snap, nil
}

// Restore seeds the store from a snapshot. Ids and timestamps are not carried
// over; words and collaborators already present are skipped.
func (e *Exporter) Restore(ctx context.Context, key string) (*service.SeedReport, error) {
	snap, err := e.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	entries := make([]word.Entry, 0, len(snap.Words))
	for _, w := range snap.Words {
		entries = append(entries, word.Entry{Text: w.Text, Collaborators: w.Collaborators})
	}
	return service.Seed(ctx, e.words, entries)
}
