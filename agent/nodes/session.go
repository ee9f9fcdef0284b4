package dispatchnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	statex "github.com/tanpawarit/realty-assistant/agent/state"
)

func LoadOrCreateSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
	case errors.Is(err, statex.ErrStateNotFound):
		st = statex.NewSession(in.SessionID, in.Context.BrokerID(), in.Context.ClientID(), in.Now)
	default:
		return nil, err
	}

	in.Session = st
	return in, nil
}

// RecordTurn appends the finished exchange to the session history.
func RecordTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.AppendTurn(contractx.Turn{
		UserMessage: in.Message,
		Response:    in.Result.Response,
		ToolUsed:    in.Result.ToolUsed,
		At:          in.Now,
	})
	return in, nil
}

func SaveSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, err
	}
	return in, nil
}

// RestoreListings puts the listings of a cached search reply back into the
// session, so a later comparison reads the listings the user was shown.
func RestoreListings(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	res := in.Result.ToolResult
	if res == nil || res.Search == nil {
		return in, nil
	}

	if _, err := LoadOrCreateSession(ctx, in, store); err != nil {
		return nil, err
	}
	in.Session.RememberListings(res.Search.Properties, in.Now)
	return SaveSession(ctx, in, store)
}
