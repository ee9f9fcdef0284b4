package contract

import (
	"context"
	"time"
)

type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (Classification, error)
}

// ListingBook is the per-session memory of the last search, used by comparison.
type ListingBook interface {
	Listing(id string) (Property, bool)
	RememberListings(props []Property, now time.Time)
}

type ToolExecutor interface {
	Execute(ctx context.Context, inv ToolInvocation, book ListingBook, actx AgentContext, selected []string) (*ToolResult, error)
}

type ResponseCache interface {
	Get(key string) (ChatResult, bool)
	Put(key string, result ChatResult)
}
