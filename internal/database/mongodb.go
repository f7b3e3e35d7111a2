package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// ErrNoURI is returned by NewManager when no connection string is supplied.
var ErrNoURI = errors.New("mongo connection string is empty")

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Connection is the live handle shared by every repository.
type Connection struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Collection returns a handle to the named collection in the configured database.
func (c *Connection) Collection(name string) *mongo.Collection {
	return c.DB.Collection(name)
}

// Manager owns the single Mongo connection of the process. The first Get dials,
// later calls return the cached handle. A failed dial is not cached.
// Concurrent callers share one dial, and each stops waiting when its own
// context is done.
type Manager struct {
	uri     string
	dbName  string
	timeout time.Duration

	mu     sync.Mutex
	conn   *Connection
	dials  singleflight.Group
	dialFn func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)
}

// NewManager validates the connection settings. It does not dial.
func NewManager(uri, dbName string, timeout time.Duration) (*Manager, error) {
	if uri == "" {
		return nil, ErrNoURI
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Manager{uri: uri, dbName: dbName, timeout: timeout, dialFn: ConnectMongo}, nil
}

func (m *Manager) current() *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// Get returns the cached connection, establishing it on first use.
func (m *Manager) Get(ctx context.Context) (*Connection, error) {
	if c := m.current(); c != nil {
		return c, nil
	}
	ch := m.dials.DoChan("dial", func() (interface{}, error) {
		if c := m.current(); c != nil {
			return c, nil
		}
		// the dial outlives any single caller; it is bounded by m.timeout
		client, err := m.dialFn(context.WithoutCancel(ctx), m.uri, m.timeout)
		if err != nil {
			return nil, err
		}
		c := &Connection{Client: client, DB: client.Database(m.dbName)}
		m.mu.Lock()
		m.conn = c
		m.mu.Unlock()
		return c, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Connection), nil
	}
}

// Ping checks the cached connection. It never dials.
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return errors.New("mongo not connected")
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return conn.Client.Ping(ctx, nil)
}

// Close disconnects the cached client, if any. Safe to call more than once.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Client.Disconnect(ctx)
	m.conn = nil
	return err
}
