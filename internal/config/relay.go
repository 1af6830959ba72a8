package config

import "time"

type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`

	// MetricsPort serves /metrics from the standalone relay binary. Zero disables it.
	MetricsPort int `env:"RELAY_METRICS_PORT" envDefault:"9091"`
}
