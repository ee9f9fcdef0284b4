package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	nodex "github.com/tanpawarit/realty-assistant/agent/nodes"
	statex "github.com/tanpawarit/realty-assistant/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

const (
	defaultHistoryWindow = 10

	FallbackResponse = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment."
)

// Tracker receives per-call timing. *perf.Monitor satisfies it.
type Tracker interface {
	TrackRequest(elapsed time.Duration, cacheHit bool)
	TrackError()
}

type Config struct {
	// HistoryWindow is how many trailing turns go to the classifier.
	HistoryWindow int
}

type Dispatcher struct {
	store      statex.Store
	classifier contractx.Classifier
	tools      contractx.ToolExecutor
	cache      contractx.ResponseCache
	renderer   nodex.PromptRenderer
	tracker    Tracker

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	historyWindow int

	now func() time.Time
}

func New(
	store statex.Store,
	classifier contractx.Classifier,
	tools contractx.ToolExecutor,
	cache contractx.ResponseCache,
	renderer nodex.PromptRenderer,
	tracker Tracker,
	cfg Config,
) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if tools == nil {
		return nil, errors.New("tool executor is required")
	}
	if cache == nil {
		return nil, errors.New("response cache is required")
	}
	if renderer == nil {
		return nil, errors.New("prompt renderer is required")
	}
	if tracker == nil {
		tracker = noopTracker{}
	}

	window := cfg.HistoryWindow
	if window <= 0 {
		window = defaultHistoryWindow
	}

	d := &Dispatcher{
		store:         store,
		classifier:    classifier,
		tools:         tools,
		cache:         cache,
		renderer:      renderer,
		tracker:       tracker,
		historyWindow: window,
		now:           time.Now,
	}

	graphRunner, err := d.compileChatGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.graphRunner = graphRunner

	return d, nil
}

// Chat answers one user message. Only empty input is reported as an error;
// every other failure is logged and answered with FallbackResponse.
func (d *Dispatcher) Chat(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResult, error) {
	start := d.now()

	out, err := d.graphRunner.Invoke(ctx, nodex.GraphInput{Request: req})
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrInvalidSession) {
			return contractx.ChatResult{}, err
		}

		d.tracker.TrackError()
		log.Ctx(ctx).Error().
			Err(err).
			Str("session_id", req.SessionID).
			Msg("chat failed, returning fallback reply")
		return contractx.ChatResult{
			Response: FallbackResponse,
			ToolUsed: contractx.ToolGeneralHelp,
		}, nil
	}

	elapsed := d.now().Sub(start)
	d.tracker.TrackRequest(elapsed, out.Result.Cached)
	log.Ctx(ctx).Debug().
		Str("session_id", req.SessionID).
		Str("tool", string(out.Result.ToolUsed)).
		Bool("cache_hit", out.Result.Cached).
		Dur("elapsed", elapsed).
		Msg("chat handled")

	return out.Result, nil
}

type noopTracker struct{}

func (noopTracker) TrackRequest(time.Duration, bool) {}

func (noopTracker) TrackError() {}
