package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

const (
	DefaultCapacity = 256
	DefaultTTL      = 5 * time.Minute
)

// Key identifies a reply by normalized message, broker, client and the
// selected listings regardless of their order. Parts are hashed as a JSON
// array so no part can spill into its neighbour.
func Key(message, brokerID, clientID string, selected []string) string {
	ids := append([]string(nil), selected...)
	sort.Strings(ids)

	parts := make([]string, 0, 3+len(ids))
	parts = append(parts, strings.ToLower(strings.TrimSpace(message)), brokerID, clientID)
	parts = append(parts, ids...)

	// a []string always marshals
	payload, _ := json.Marshal(parts)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type Option func(*options)

type options struct {
	capacity int
	ttl      time.Duration
}

func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// Cache is a bounded reply cache. Expired entries miss on read and the least
// recently used entry is dropped when the cache is full.
type Cache struct {
	lru *expirable.LRU[string, contractx.ChatResult]
}

var _ contractx.ResponseCache = (*Cache)(nil)

func New(opts ...Option) *Cache {
	o := options{capacity: DefaultCapacity, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Cache{lru: expirable.NewLRU[string, contractx.ChatResult](o.capacity, nil, o.ttl)}
}

func (c *Cache) Get(key string) (contractx.ChatResult, bool) {
	return c.lru.Get(key)
}

func (c *Cache) Put(key string, result contractx.ChatResult) {
	c.lru.Add(key, result)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
