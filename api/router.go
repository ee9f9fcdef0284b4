package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
	"github.com/tanpawarit/realty-assistant/pkg/perf"
	"github.com/tanpawarit/realty-assistant/records"
)

const defaultChatTimeout = 30 * time.Second

type ChatService interface {
	Chat(ctx context.Context, req contractx.ChatRequest) (contractx.ChatResult, error)
}

type Deps struct {
	Chat     ChatService
	Records  records.Store
	Monitor  *perf.Monitor
	Gatherer prometheus.Gatherer

	// ChatTimeout bounds one chat request. Zero means 30s.
	ChatTimeout time.Duration
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), Recovery())

	timeout := deps.ChatTimeout
	if timeout <= 0 {
		timeout = defaultChatTimeout
	}

	chat := &chatHandler{chat: deps.Chat, timeout: timeout}
	rec := &recordsHandler{store: deps.Records}
	leads := &leadsHandler{store: deps.Records}
	perfH := &perfHandler{monitor: deps.Monitor}

	apiGroup := r.Group("/api")
	apiGroup.POST("/chat", chat.Chat)
	apiGroup.POST("/brokers", rec.CreateBroker)
	apiGroup.GET("/brokers", rec.GetBrokers)
	apiGroup.POST("/clients", rec.CreateClient)
	apiGroup.GET("/clients", rec.GetClients)
	apiGroup.POST("/leads/score", leads.Score)
	apiGroup.GET("/leads", leads.List)
	apiGroup.GET("/performance", perfH.Get)
	apiGroup.POST("/performance/reset", perfH.Reset)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}
