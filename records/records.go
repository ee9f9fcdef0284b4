package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/tanpawarit/realty-assistant/lead"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
)

type Broker struct {
	bun.BaseModel `bun:"table:brokers,alias:b" json:"-"`

	ID                string    `bun:"id,pk,type:uuid" json:"id"`
	Name              string    `bun:"name,notnull" json:"name"`
	YearsOfExperience int       `bun:"years_of_experience" json:"years_of_experience"`
	AreaOfService     string    `bun:"area_of_service" json:"area_of_service"`
	CreatedAt         time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

type Client struct {
	bun.BaseModel `bun:"table:clients,alias:c" json:"-"`

	ID        string         `bun:"id,pk,type:uuid" json:"id"`
	Name      string         `bun:"name,notnull" json:"name"`
	Phone     string         `bun:"phone" json:"phone"`
	Email     string         `bun:"email" json:"email"`
	BrokerID  string         `bun:"broker_id,type:uuid,nullzero" json:"broker_id"`
	RentOrBuy lead.RentOrBuy `bun:"rent_or_buy" json:"rent_or_buy"`
	BudgetMin float64        `bun:"budget_min" json:"budget_min"`
	BudgetMax float64        `bun:"budget_max" json:"budget_max"`
	Bedrooms  int            `bun:"bedrooms" json:"bedrooms"`
	Bathrooms int            `bun:"bathrooms" json:"bathrooms"`
	Location  string         `bun:"location" json:"location"`
	Amenities []string       `bun:"amenities,array" json:"amenities"`
	CreatedAt time.Time      `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,notnull" json:"updated_at"`
}

func (c Client) Preferences() lead.Preferences {
	return lead.Preferences{
		BudgetMin: c.BudgetMin,
		BudgetMax: c.BudgetMax,
		RentOrBuy: c.RentOrBuy,
		Bedrooms:  c.Bedrooms,
		Bathrooms: c.Bathrooms,
		Location:  c.Location,
		Amenities: append([]string(nil), c.Amenities...),
	}
}

// ClientFilter narrows ListClients. Only the first non-empty field applies,
// in the order ID, BrokerID, Phone.
type ClientFilter struct {
	ID       string
	BrokerID string
	Phone    string
}

func (f ClientFilter) normalize() ClientFilter {
	switch {
	case strings.TrimSpace(f.ID) != "":
		return ClientFilter{ID: strings.TrimSpace(f.ID)}
	case strings.TrimSpace(f.BrokerID) != "":
		return ClientFilter{BrokerID: strings.TrimSpace(f.BrokerID)}
	case strings.TrimSpace(f.Phone) != "":
		return ClientFilter{Phone: strings.TrimSpace(f.Phone)}
	default:
		return ClientFilter{}
	}
}

func (f ClientFilter) matches(c Client) bool {
	switch {
	case f.ID != "":
		return c.ID == f.ID
	case f.BrokerID != "":
		return c.BrokerID == f.BrokerID
	case f.Phone != "":
		return c.Phone == f.Phone
	default:
		return true
	}
}

type Store interface {
	CreateBroker(ctx context.Context, b *Broker) error
	GetBroker(ctx context.Context, id string) (Broker, error)
	ListBrokers(ctx context.Context) ([]Broker, error)
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context, filter ClientFilter) ([]Client, error)
}

func validateBroker(b *Broker) error {
	if b == nil {
		return fmt.Errorf("%w: broker is nil", ErrInvalidRecord)
	}
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return fmt.Errorf("%w: broker name is required", ErrInvalidRecord)
	}
	if b.YearsOfExperience < 0 {
		return fmt.Errorf("%w: years of experience must not be negative", ErrInvalidRecord)
	}
	return nil
}

func validateClient(c *Client) error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrInvalidRecord)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidRecord)
	}
	if c.RentOrBuy != "" && c.RentOrBuy != lead.Rent && c.RentOrBuy != lead.Buy {
		return fmt.Errorf("%w: rent_or_buy must be rent or buy", ErrInvalidRecord)
	}
	return nil
}
