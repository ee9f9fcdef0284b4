package dispatchnode

import (
	"fmt"

	cachex "github.com/tanpawarit/realty-assistant/agent/cache"
	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

// LookupCache computes the reply key and marks the state as a hit when a
// live entry exists.
func LookupCache(in *GraphState, cache contractx.ResponseCache) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.CacheKey = cachex.Key(in.Message, in.Context.BrokerID(), in.Context.ClientID(), in.Selected)
	if cached, ok := cache.Get(in.CacheKey); ok {
		cached.Cached = true
		in.CacheHit = true
		in.Result = cached
	}
	return in, nil
}

// StoreCache keeps the reply for later identical requests. Comparisons read
// the session's listings, so their replies are not cached.
func StoreCache(in *GraphState, cache contractx.ResponseCache) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.CacheKey == "" {
		return nil, fmt.Errorf("%w: cache key is empty", contractx.ErrValidation)
	}

	if in.Result.ToolUsed == contractx.ToolCompareProperties {
		return in, nil
	}
	cache.Put(in.CacheKey, in.Result)
	return in, nil
}
