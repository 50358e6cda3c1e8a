package config

import (
	"fmt"
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL" default:"sqlite://accounts.db"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

// Redis configures the Redis Streams event bus. An empty URL selects the
// in-memory bus.
type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"accounts:"`
	Group        string        `envconfig:"GROUP" default:"accounts-service"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Cache configures the account read cache. It uses Redis when REDIS_URL is
// set and process memory otherwise. A zero TTL disables it.
type Cache struct {
	TTL time.Duration `envconfig:"TTL" default:"1m"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Balance configures the total balance aggregation.
type Balance struct {
	DefaultBatchSize int           `envconfig:"DEFAULT_BATCH_SIZE" default:"5"`
	MaxBatchSize     int           `envconfig:"MAX_BATCH_SIZE" default:"10000"`
	MaxWorkers       int           `envconfig:"MAX_WORKERS" default:"0"`
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// SMTP configures account notification emails. Without a host the
// notifications are only logged.
type SMTP struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"noreply@accounts.local"`
	To       string `envconfig:"TO"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[accounts]"`
}

type Server struct {
	Scheme          string        `envconfig:"SCHEME" default:"http"`
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	// ProxyHeader carries the client address, honoured only for requests
	// arriving from TrustedProxies.
	ProxyHeader    string   `envconfig:"PROXY_HEADER"`
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

// Addr is the listen address of the HTTP server.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Redis     *Redis     `envconfig:"REDIS"`
	Cache     *Cache     `envconfig:"CACHE"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Balance   *Balance   `envconfig:"BALANCE"`
	SMTP      *SMTP      `envconfig:"SMTP"`
}
