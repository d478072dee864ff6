package core

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/backend"
	"github.com/quka-ai/course-console/pkg/chat"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/poller"
	"github.com/quka-ai/course-console/pkg/store"
	"github.com/quka-ai/course-console/pkg/upload"
)

type Core struct {
	cfg CoreConfig

	client     *apiclient.Client
	backend    *backend.Backend
	tracker    *poller.Tracker
	store      store.RecordStore
	sequencer  *chat.Sequencer
	httpEngine *gin.Engine

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		// stdout is reserved for command output
		var writer io.Writer = os.Stderr
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    100, // megabytes
				MaxBackups: 3,
				MaxAge:     28, //days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	i18n.Setup(cfg.Lang)

	core := &Core{
		cfg:     cfg,
		metrics: NewMetrics("course_console", "core", prometheus.NewRegistry()),
	}

	opts := []apiclient.Option{
		apiclient.WithTimeout(cfg.API.TimeoutDuration()),
		apiclient.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		apiclient.WithObserver(core.metrics),
	}
	for k, v := range cfg.API.Headers {
		opts = append(opts, apiclient.WithHeader(k, v))
	}
	core.client = apiclient.New(cfg.API.BaseURL, opts...)
	core.backend = backend.New(core.client)

	setupStore(core)

	core.tracker = poller.NewTracker(
		poller.WithStore(core.store),
		poller.WithObserver(core.metrics),
		poller.WithInterval(cfg.Poll.Interval()),
	)
	core.sequencer = chat.NewSequencer(core.backend.Chat, core.metrics)

	gin.SetMode(gin.ReleaseMode)
	core.httpEngine = gin.New()

	return core
}

func setupStore(core *Core) {
	core.store = store.NewMemoryStore()
	if core.cfg.Store.Driver != STORE_DRIVER_REDIS {
		return
	}

	client := NewRedisClient(core.cfg.Store.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, task history kept in memory",
			slog.String("error", err.Error()),
			slog.String("component", "core.setupStore"))
		client.Close()
		return
	}
	core.store = store.NewRedisStore(client, core.cfg.Store.Redis.KeyPrefix)
}

func NewRedisClient(cfg RedisConfig) redis.UniversalClient {
	addrs := []string{cfg.Addr}
	if cfg.Cluster && len(cfg.ClusterAddrs) > 0 {
		addrs = cfg.ClusterAddrs
	}
	dialTimeout := 5 * time.Second
	if cfg.DialTimeout > 0 {
		dialTimeout = time.Duration(cfg.DialTimeout) * time.Second
	}
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       addrs,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Client() *apiclient.Client {
	return s.client
}

func (s *Core) Backend() *backend.Backend {
	return s.backend
}

func (s *Core) Tracker() *poller.Tracker {
	return s.tracker
}

func (s *Core) Store() store.RecordStore {
	return s.store
}

func (s *Core) Chat() *chat.Sequencer {
	return s.sequencer
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

// NewSelector builds a file selector with the configured limits.
func (s *Core) NewSelector(input upload.Source, onSuccess func(upload.File), onError func(string)) *upload.Selector {
	return upload.NewSelector(upload.Options{
		MaxSize:      s.cfg.Upload.MaxSizeBytes(),
		AllowedTypes: s.cfg.Upload.AllowedTypes,
		OnSuccess:    onSuccess,
		OnError:      onError,
	}, input)
}

// Close stops every poll session and releases the record store.
func (s *Core) Close() error {
	s.tracker.StopAll()
	return s.store.Close()
}
