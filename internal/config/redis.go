package config

import "time"

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

type Queue struct {
	Enabled     bool   `env:"QUEUE_ENABLED" envDefault:"false"`
	Name        string `env:"QUEUE_NAME" envDefault:"purchases"`
	Concurrency int    `env:"QUEUE_CONCURRENCY" envDefault:"1"`
	// DedupTTL is how long a request id is remembered by the worker.
	DedupTTL time.Duration `env:"QUEUE_DEDUP_TTL" envDefault:"24h"`
}
