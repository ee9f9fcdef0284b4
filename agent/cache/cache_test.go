package cache

import (
	"testing"
	"time"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

func TestKeyNormalizesMessageAndSelection(t *testing.T) {
	t.Parallel()

	a := Key("  Show me Downtown condos ", "b1", "c1", []string{"prop_3", "prop_1"})
	b := Key("show me downtown condos", "b1", "c1", []string{"prop_1", "prop_3"})
	if a != b {
		t.Fatalf("Key() differs for equivalent inputs: %s vs %s", a, b)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	t.Parallel()

	base := Key("hello", "b1", "c1", nil)
	others := []string{
		Key("hello", "b2", "c1", nil),
		Key("hello", "b1", "c2", nil),
		Key("hello", "b1", "c1", []string{"prop_1"}),
		Key("hello there", "b1", "c1", nil),
		Key("hello", "b1c1", "", nil),
	}
	for i, k := range others {
		if k == base {
			t.Fatalf("Key() collision at case %d", i)
		}
	}
}

func TestKeySeparatorInMessageDoesNotCollide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
	}{
		{
			name: "unit separator shifts broker",
			a:    Key("hi\x1fb1", "c1", "", nil),
			b:    Key("hi", "b1", "c1", nil),
		},
		{
			name: "selected id shifts into client",
			a:    Key("hi", "b1", "c1\x1fprop_1", nil),
			b:    Key("hi", "b1", "c1", []string{"prop_1"}),
		},
		{
			name: "quote and comma in message",
			a:    Key(`hi","b1`, "c1", "", nil),
			b:    Key("hi", "b1", "c1", nil),
		},
	}
	for _, tc := range tests {
		if tc.a == tc.b {
			t.Fatalf("%s: Key() collided", tc.name)
		}
	}
}

func TestKeyDoesNotMutateSelection(t *testing.T) {
	t.Parallel()

	selected := []string{"prop_2", "prop_1"}
	_ = Key("x", "", "", selected)
	if selected[0] != "prop_2" {
		t.Fatalf("Key() sorted caller slice: %v", selected)
	}
}

func TestCacheExpiresOnRead(t *testing.T) {
	t.Parallel()

	c := New(WithTTL(50 * time.Millisecond))

	c.Put("k", contractx.ChatResult{Response: "hi", ToolUsed: contractx.ToolGeneralHelp})
	if got, ok := c.Get("k"); !ok || got.Response != "hi" {
		t.Fatalf("Get() = %+v, %v, want hit", got, ok)
	}

	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("Get() hit after ttl elapsed")
	}
}

func TestCacheEvictsOldestWhenFull(t *testing.T) {
	t.Parallel()

	c := New(WithCapacity(2))
	c.Put("a", contractx.ChatResult{Response: "a"})
	c.Put("b", contractx.ChatResult{Response: "b"})
	c.Put("c", contractx.ChatResult{Response: "c"})

	if _, ok := c.Get("a"); ok {
		t.Fatalf("oldest entry survived eviction")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("Get(%q) missed", k)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := New(WithCapacity(2))
	c.Put("a", contractx.ChatResult{Response: "a"})
	c.Put("b", contractx.ChatResult{Response: "b"})
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("Get(a) missed")
	}
	c.Put("c", contractx.ChatResult{Response: "c"})

	if _, ok := c.Get("b"); ok {
		t.Fatalf("least recently used entry survived eviction")
	}
	if got, ok := c.Get("a"); !ok || got.Response != "a" {
		t.Fatalf("Get(a) = %+v, %v", got, ok)
	}
}

func TestCachePutReplacesExistingKey(t *testing.T) {
	t.Parallel()

	c := New(WithCapacity(2))
	c.Put("a", contractx.ChatResult{Response: "old"})
	c.Put("b", contractx.ChatResult{Response: "b"})
	c.Put("a", contractx.ChatResult{Response: "new"})
	c.Put("c", contractx.ChatResult{Response: "c"})

	// re-putting "a" refreshed it, so "b" is now least recently used
	if _, ok := c.Get("b"); ok {
		t.Fatalf("Get(b) hit, want evicted")
	}
	got, ok := c.Get("a")
	if !ok || got.Response != "new" {
		t.Fatalf("Get(a) = %+v, %v, want new value", got, ok)
	}
}
