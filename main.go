package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	dispatcherx "github.com/tanpawarit/realty-assistant/agent/agents/dispatcher"
	cachex "github.com/tanpawarit/realty-assistant/agent/cache"
	classifierx "github.com/tanpawarit/realty-assistant/agent/classifier"
	llmx "github.com/tanpawarit/realty-assistant/agent/llm"
	promptx "github.com/tanpawarit/realty-assistant/agent/prompt"
	statex "github.com/tanpawarit/realty-assistant/agent/state"
	toolx "github.com/tanpawarit/realty-assistant/agent/tool"
	"github.com/tanpawarit/realty-assistant/api"
	configx "github.com/tanpawarit/realty-assistant/pkg/config"
	_ "github.com/tanpawarit/realty-assistant/pkg/logger/autoload"
	"github.com/tanpawarit/realty-assistant/pkg/perf"
	"github.com/tanpawarit/realty-assistant/records"
)

type AppConfig struct {
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	DatabaseDSN   string        `envconfig:"DATABASE_DSN"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	CacheCapacity int           `envconfig:"CACHE_CAPACITY" default:"256"`
	HistoryWindow int           `envconfig:"HISTORY_WINDOW" default:"10"`
	ChatTimeout   time.Duration `envconfig:"CHAT_TIMEOUT" default:"30s"`
	Seed          int64         `envconfig:"SEED" default:"0"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")
	redisCfg := configx.MustNew[statex.RedisConfig]("APP_REDIS")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recordStore, closeRecords := mustRecordStore(ctx, appCfg.DatabaseDSN)
	defer closeRecords()

	sessionStore := mustSessionStore(*redisCfg, appCfg.SessionTTL)

	classifier, closeClassifier, err := classifierx.NewFromConfig(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", string(llmCfg.ProviderName())).Msg("failed to initialize classifier")
	}
	defer func() {
		if err := closeClassifier(); err != nil {
			log.Warn().Err(err).Msg("close classifier")
		}
	}()

	tools, err := toolx.Describe(toolx.Catalog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to describe tool catalog")
	}
	renderer, err := promptx.NewRenderer(promptx.LoadPromptSet().Dispatcher, tools)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dispatcher prompt")
	}

	seed := appCfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	monitor := perf.NewMonitor(registry)

	dispatcher, err := dispatcherx.New(
		sessionStore,
		classifier,
		toolx.NewExecutor(toolx.WithSeed(seed)),
		cachex.New(cachex.WithCapacity(appCfg.CacheCapacity), cachex.WithTTL(appCfg.CacheTTL)),
		renderer,
		monitor,
		dispatcherx.Config{HistoryWindow: appCfg.HistoryWindow},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build dispatcher")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr: appCfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Chat:        dispatcher,
			Records:     recordStore,
			Monitor:     monitor,
			Gatherer:    registry,
			ChatTimeout: appCfg.ChatTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", appCfg.HTTPAddr).Str("provider", string(llmCfg.ProviderName())).Msg("realty assistant listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	monitor.LogMetrics()
}

func mustRecordStore(ctx context.Context, dsn string) (records.Store, func()) {
	if dsn == "" {
		log.Warn().Msg("APP_DATABASE_DSN not set, keeping brokers and clients in memory")
		return records.NewMemoryStore(), func() {}
	}

	store, err := records.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := store.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database schema")
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
}

func mustSessionStore(cfg statex.RedisConfig, ttl time.Duration) statex.Store {
	client := statex.NewRedisClient(cfg)
	if client == nil {
		log.Warn().Msg("APP_REDIS_ADDR not set, keeping chat sessions in memory")
		return statex.NewMemoryStore()
	}

	store, err := statex.NewRedisStore(client, statex.WithTTL(ttl))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis session store")
	}
	return store
}
