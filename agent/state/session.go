package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

// MaxHistory is how many turns a session keeps. Older turns drop off the front.
const MaxHistory = 10

// Session is the per-conversation state: the capped turn history and the
// listings returned by the most recent search.
type Session struct {
	SessionID string `json:"session_id"`
	BrokerID  string `json:"broker_id,omitempty"`
	ClientID  string `json:"client_id,omitempty"`

	History  []contractx.Turn              `json:"history,omitempty"`
	Listings map[string]contractx.Property `json:"listings,omitempty"`
	// search order, so comparisons can list them the way they were shown
	ListingOrder []string `json:"listing_order,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

var _ contractx.ListingBook = (*Session)(nil)

var (
	ErrHistoryOverflow = errors.New("history exceeds max turns")
	ErrListingsCorrupt = errors.New("listing order refers to missing listing")
)

func NewSession(sessionID, brokerID, clientID string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		BrokerID:  brokerID,
		ClientID:  clientID,
		Listings:  make(map[string]contractx.Property, 5),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureListingsMap makes sure s.Listings is initialized.
func (s *Session) EnsureListingsMap() {
	if s.Listings == nil {
		s.Listings = make(map[string]contractx.Property, 5)
	}
}

// AppendTurn records a turn and drops the oldest ones past MaxHistory.
func (s *Session) AppendTurn(turn contractx.Turn) {
	s.History = append(s.History, turn)
	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = append([]contractx.Turn(nil), s.History[over:]...)
	}
	if !turn.At.IsZero() {
		s.Touch(turn.At)
	}
}

// Recent returns up to n trailing turns, oldest first.
func (s *Session) Recent(n int) []contractx.Turn {
	if s == nil || n <= 0 || len(s.History) == 0 {
		return nil
	}
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	return append([]contractx.Turn(nil), s.History[start:]...)
}

// RememberListings replaces the stored search results.
func (s *Session) RememberListings(props []contractx.Property, now time.Time) {
	s.Listings = make(map[string]contractx.Property, len(props))
	s.ListingOrder = make([]string, 0, len(props))
	for _, p := range props {
		if _, dup := s.Listings[p.ID]; !dup {
			s.ListingOrder = append(s.ListingOrder, p.ID)
		}
		s.Listings[p.ID] = p
	}
	s.Touch(now)
}

func (s *Session) Listing(id string) (contractx.Property, bool) {
	if s == nil || s.Listings == nil {
		return contractx.Property{}, false
	}
	p, ok := s.Listings[strings.TrimSpace(id)]
	return p, ok
}

func (s *Session) Validate() error {
	if len(s.History) > MaxHistory {
		return fmt.Errorf("%w: %d turns", ErrHistoryOverflow, len(s.History))
	}
	for _, id := range s.ListingOrder {
		if _, ok := s.Listings[id]; !ok {
			return fmt.Errorf("%w: %s", ErrListingsCorrupt, id)
		}
	}
	return nil
}
