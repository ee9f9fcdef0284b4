package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

func newTestRedisStore(t *testing.T, opts ...StoreOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(client, opts...)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	st := NewSession("session-1", "broker-1", "client-1", now)
	st.AppendTurn(contractx.Turn{UserMessage: "hi", Response: "hello", ToolUsed: contractx.ToolGeneralHelp, At: now})
	st.RememberListings([]contractx.Property{{ID: "prop_1", Address: "1 Oak Street"}}, now)

	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mr.Exists("realty:session:session-1") {
		t.Fatalf("key realty:session:session-1 not written")
	}
	if ttl := mr.TTL("realty:session:session-1"); ttl != defaultStoreTTL {
		t.Fatalf("TTL = %v, want %v", ttl, defaultStoreTTL)
	}

	got, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.BrokerID != "broker-1" || got.ClientID != "client-1" {
		t.Fatalf("Load() identity = %q/%q", got.BrokerID, got.ClientID)
	}
	if len(got.History) != 1 || got.History[0].Response != "hello" {
		t.Fatalf("Load().History = %+v", got.History)
	}
	if p, ok := got.Listing("prop_1"); !ok || p.Address != "1 Oak Street" {
		t.Fatalf("Load().Listing(prop_1) = %+v, %v", p, ok)
	}
}

func TestRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}
}

func TestRedisStoreKeyPrefixAndDelete(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, WithKeyPrefix("test:"), WithTTL(0))
	ctx := context.Background()

	if err := store.Save(ctx, NewSession("s2", "", "", time.Now())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mr.Exists("test:s2") {
		t.Fatalf("key test:s2 not written")
	}
	if ttl := mr.TTL("test:s2"); ttl != 0 {
		t.Fatalf("TTL = %v, want none", ttl)
	}

	if err := store.Delete(ctx, "s2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("test:s2") {
		t.Fatalf("key test:s2 still present after Delete")
	}
}

func TestRedisStoreRejectsEmptySession(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	if _, err := store.Load(ctx, "   "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Save(ctx, &Session{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilSessionState) {
		t.Fatalf("Save(nil) error = %v, want ErrNilSessionState", err)
	}
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisStore(nil); err == nil {
		t.Fatalf("NewRedisStore(nil) error = nil, want error")
	}
}
