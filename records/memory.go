package records

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory. Used when no database is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	brokers map[string]Broker
	clients map[string]Client
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		brokers: make(map[string]Broker),
		clients: make(map[string]Client),
		now:     time.Now,
	}
}

func (m *MemoryStore) CreateBroker(_ context.Context, b *Broker) error {
	if err := validateBroker(b); err != nil {
		return err
	}

	now := m.now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now

	m.mu.Lock()
	m.brokers[b.ID] = *b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetBroker(_ context.Context, id string) (Broker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.brokers[strings.TrimSpace(id)]
	if !ok {
		return Broker{}, ErrNotFound
	}
	return b, nil
}

func (m *MemoryStore) ListBrokers(_ context.Context) ([]Broker, error) {
	m.mu.RLock()
	out := make([]Broker, 0, len(m.brokers))
	for _, b := range m.brokers {
		out = append(out, b)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (m *MemoryStore) CreateClient(_ context.Context, c *Client) error {
	if err := validateClient(c); err != nil {
		return err
	}

	now := m.now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	c.Amenities = append([]string(nil), c.Amenities...)

	m.mu.Lock()
	m.clients[c.ID] = *c
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetClient(_ context.Context, id string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[strings.TrimSpace(id)]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c.clone(), nil
}

func (m *MemoryStore) ListClients(_ context.Context, filter ClientFilter) ([]Client, error) {
	filter = filter.normalize()

	m.mu.RLock()
	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		if filter.matches(c) {
			out = append(out, c.clone())
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

// createdBefore orders by creation time, then by id for equal timestamps.
func createdBefore(a time.Time, aID string, b time.Time, bID string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aID < bID
}

// clone detaches the amenities slice from the stored copy.
func (c Client) clone() Client {
	c.Amenities = append([]string(nil), c.Amenities...)
	return c
}
