package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wordcollab/wordcollab/internal/database"
	"github.com/wordcollab/wordcollab/internal/word"
	"github.com/wordcollab/wordcollab/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding word documents.
const CollectionName = "words"

// Connector hands out the shared connection. *database.Manager satisfies it.
type Connector interface {
	Get(ctx context.Context) (*database.Connection, error)
}

// indexRetryInterval spaces out attempts to build the unique index after a failure.
const indexRetryInterval = time.Minute

// MongoRepo implements Repository on a Mongo collection. The connection is
// obtained on first use. The unique index on "word" is built by the first
// request; if that fails (for example, old data already holds duplicates) the
// repository keeps serving and Insert checks for an existing word first.
type MongoRepo struct {
	conn Connector
	name string
	now  func() time.Time

	mu          sync.Mutex
	indexed     bool
	lastAttempt time.Time
}

func NewMongoRepo(conn Connector) *MongoRepo {
	return &MongoRepo{conn: conn, name: CollectionName, now: time.Now}
}

func (m *MongoRepo) collection(ctx context.Context) (*mongo.Collection, error) {
	c, err := m.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	col := c.Collection(m.name)
	if m.claimIndexAttempt() {
		m.ensureIndex(ctx, col)
	}
	return col, nil
}

// claimIndexAttempt reports whether this caller should try to build the index.
// Only one caller per retry interval gets true.
func (m *MongoRepo) claimIndexAttempt() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexed {
		return false
	}
	now := m.now()
	if !m.lastAttempt.IsZero() && now.Sub(m.lastAttempt) < indexRetryInterval {
		return false
	}
	m.lastAttempt = now
	return true
}

func (m *MongoRepo) ensureIndex(ctx context.Context, col *mongo.Collection) {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "word", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("word_unique"),
	}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		logger.Warnf("word store: unique index on %s.word not built, retrying in %s: %v", m.name, indexRetryInterval, err)
		return
	}
	m.mu.Lock()
	m.indexed = true
	m.mu.Unlock()
}

func (m *MongoRepo) hasIndex() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexed
}

func (m *MongoRepo) Insert(ctx context.Context, w *word.Word) (*word.Word, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return nil, err
	}
	doc := w.Clone().Normalize()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if !m.hasIndex() {
		n, err := col.CountDocuments(ctx, bson.M{"word": doc.Text})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrDuplicate
		}
	}
	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	// read back so callers see exactly what was persisted
	var out word.Word
	if err := col.FindOne(ctx, bson.M{"_id": doc.ID}).Decode(&out); err != nil {
		return nil, err
	}
	return out.Normalize(), nil
}

func (m *MongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*word.Word, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return nil, err
	}
	var w word.Word
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w.Normalize(), nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*word.Word, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*word.Word{}
	for cur.Next(ctx) {
		var w word.Word
		if err := cur.Decode(&w); err != nil {
			return nil, err
		}
		out = append(out, w.Normalize())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendCollaborator is a single conditional update: the filter only matches
// when the name is absent, so concurrent identical appends cannot both succeed.
func (m *MongoRepo) AppendCollaborator(ctx context.Context, id primitive.ObjectID, name string) (*word.Word, error) {
	col, err := m.collection(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": id, "collaborators": bson.M{"$ne": name}}
	update := bson.M{"$push": bson.M{"collaborators": name}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var w word.Word
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&w)
	if err == nil {
		return w.Normalize(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	n, cerr := col.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return nil, cerr
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrDuplicate
}
