package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BunStore persists records in Postgres.
type BunStore struct {
	db  *bun.DB
	now func() time.Time
}

func Open(dsn string) (*BunStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return NewBunStore(bun.NewDB(sqldb, pgdialect.New())), nil
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, now: time.Now}
}

// InitSchema creates the brokers and clients tables when missing.
func (s *BunStore) InitSchema(ctx context.Context) error {
	models := []any{(*Broker)(nil), (*Client)(nil)}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func (s *BunStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) CreateBroker(ctx context.Context, b *Broker) error {
	if err := validateBroker(b); err != nil {
		return err
	}

	now := s.now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt, b.UpdatedAt = now, now

	if _, err := s.db.NewInsert().Model(b).Exec(ctx); err != nil {
		return fmt.Errorf("insert broker: %w", err)
	}
	return nil
}

func (s *BunStore) GetBroker(ctx context.Context, id string) (Broker, error) {
	id, ok := parseID(id)
	if !ok {
		return Broker{}, ErrNotFound
	}

	var b Broker
	err := s.db.NewSelect().Model(&b).Where("b.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return Broker{}, notFound(err, "select broker")
	}
	return b, nil
}

func (s *BunStore) ListBrokers(ctx context.Context) ([]Broker, error) {
	out := make([]Broker, 0)
	if err := s.db.NewSelect().Model(&out).Order("b.created_at ASC", "b.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select brokers: %w", err)
	}
	return out, nil
}

func (s *BunStore) CreateClient(ctx context.Context, c *Client) error {
	if err := validateClient(c); err != nil {
		return err
	}

	now := s.now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now

	if _, err := s.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (s *BunStore) GetClient(ctx context.Context, id string) (Client, error) {
	id, ok := parseID(id)
	if !ok {
		return Client{}, ErrNotFound
	}

	var c Client
	err := s.db.NewSelect().Model(&c).Where("c.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return Client{}, notFound(err, "select client")
	}
	return c, nil
}

func (s *BunStore) ListClients(ctx context.Context, filter ClientFilter) ([]Client, error) {
	filter = filter.normalize()

	out := make([]Client, 0)
	q := s.db.NewSelect().Model(&out).Order("c.created_at ASC", "c.id ASC")
	switch {
	case filter.ID != "":
		id, ok := parseID(filter.ID)
		if !ok {
			return out, nil
		}
		q = q.Where("c.id = ?", id)
	case filter.BrokerID != "":
		id, ok := parseID(filter.BrokerID)
		if !ok {
			return out, nil
		}
		q = q.Where("c.broker_id = ?", id)
	case filter.Phone != "":
		q = q.Where("c.phone = ?", filter.Phone)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	return out, nil
}

// parseID reports whether id is a UUID. Anything else cannot match a uuid
// column and is treated as absent.
func parseID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
