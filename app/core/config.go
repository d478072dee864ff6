package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const ENV_PREFIX = "COURSE_CONSOLE_"

const (
	DEFAULT_API_BASE_URL      = "http://localhost:8000"
	DEFAULT_API_TIMEOUT       = 30
	DEFAULT_UPLOAD_MAX_SIZE   = 10
	DEFAULT_POLL_INTERVAL_MS  = 2000
	DEFAULT_SERVE_ADDR        = "127.0.0.1:8090"
	DEFAULT_HEALTH_CHECK_SPEC = "@every 30s"

	STORE_DRIVER_MEMORY = "memory"
	STORE_DRIVER_REDIS  = "redis"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	conf.SetConfigBytes(raw)

	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.ApplyDefaults()

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.ApplyDefaults()
	return c
}

type CoreConfig struct {
	Lang   string       `toml:"lang"`
	API    APIConfig    `toml:"api"`
	Log    Log          `toml:"log"`
	Upload UploadConfig `toml:"upload"`
	Poll   PollConfig   `toml:"poll"`
	Store  StoreConfig  `toml:"store"`
	Serve  ServeConfig  `toml:"serve"`

	bytes []byte `toml:"-"`
}

func (c *CoreConfig) SetConfigBytes(raw []byte) {
	c.bytes = raw
}

func (c *CoreConfig) FromENV() {
	c.Lang = env("LANG")
	c.API.FromENV()
	c.Log.FromENV()
	c.Poll.FromENV()
	c.Store.FromENV()
	c.Serve.FromENV()
}

// ApplyDefaults fills every unset field.
func (c *CoreConfig) ApplyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DEFAULT_API_BASE_URL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DEFAULT_API_TIMEOUT
	}
	if c.Upload.MaxSizeMB <= 0 {
		c.Upload.MaxSizeMB = DEFAULT_UPLOAD_MAX_SIZE
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{".md", ".txt"}
	}
	if c.Poll.IntervalMS <= 0 {
		c.Poll.IntervalMS = DEFAULT_POLL_INTERVAL_MS
	}
	if c.Store.Driver == "" {
		c.Store.Driver = STORE_DRIVER_MEMORY
	}
	if c.Store.Redis.KeyPrefix == "" {
		c.Store.Redis.KeyPrefix = "course-console"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DEFAULT_SERVE_ADDR
	}
	if c.Serve.HealthCheckSpec == "" {
		c.Serve.HealthCheckSpec = DEFAULT_HEALTH_CHECK_SPEC
	}
}

type APIConfig struct {
	BaseURL   string            `toml:"base_url"`
	Timeout   int               `toml:"timeout"`    // 请求超时(秒)，默认30
	RateLimit float64           `toml:"rate_limit"` // 每秒请求数上限，0 表示不限
	RateBurst int               `toml:"rate_burst"`
	Headers   map[string]string `toml:"headers"` // 附加请求头，如 Authorization
}

func (a *APIConfig) FromENV() {
	a.BaseURL = env("API_BASE_URL")
	a.Timeout = envInt("API_TIMEOUT")
	if token := env("API_TOKEN"); token != "" {
		a.Headers = map[string]string{"Authorization": "Bearer " + token}
	}
}

func (a APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

type UploadConfig struct {
	MaxSizeMB    int64    `toml:"max_size_mb"`
	AllowedTypes []string `toml:"allowed_types"`
}

func (u UploadConfig) MaxSizeBytes() int64 {
	return u.MaxSizeMB << 20
}

type PollConfig struct {
	IntervalMS int `toml:"interval_ms"`
}

func (p *PollConfig) FromENV() {
	p.IntervalMS = envInt("POLL_INTERVAL_MS")
}

func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

type StoreConfig struct {
	Driver string      `toml:"driver"` // memory | redis
	Redis  RedisConfig `toml:"redis"`
}

func (s *StoreConfig) FromENV() {
	s.Driver = env("STORE_DRIVER")
	s.Redis.FromENV()
}

type RedisConfig struct {
	// 单机模式配置
	Addr     string `toml:"addr"`     // Redis地址，格式: host:port
	Password string `toml:"password"` // Redis密码
	DB       int    `toml:"db"`       // Redis数据库索引 (0-15)

	// 集群模式配置
	Cluster      bool     `toml:"cluster"`
	ClusterAddrs []string `toml:"cluster_addrs"`

	DialTimeout int `toml:"dial_timeout"` // 连接超时(秒)，默认5

	KeyPrefix string `toml:"key_prefix"` // 键前缀，用于隔离不同环境
}

func (r *RedisConfig) FromENV() {
	r.Addr = env("REDIS_ADDR")
	r.Password = env("REDIS_PASSWORD")
	r.DB = envInt("REDIS_DB")
	r.KeyPrefix = env("REDIS_KEY_PREFIX")
}

type ServeConfig struct {
	Addr            string `toml:"addr"`
	HealthCheckSpec string `toml:"health_check_spec"` // cron 表达式，定时探测后端健康
}

func (s *ServeConfig) FromENV() {
	s.Addr = env("SERVE_ADDR")
	s.HealthCheckSpec = env("SERVE_HEALTH_CHECK_SPEC")
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = env("LOG_LEVEL")
	l.Path = env("LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func env(key string) string {
	return os.Getenv(ENV_PREFIX + key)
}

func envInt(key string) int {
	v, err := strconv.Atoi(env(key))
	if err != nil {
		return 0
	}
	return v
}
