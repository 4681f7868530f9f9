package sessiontimer

import (
	"fmt"
	"time"
)

type Config struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		TickInterval:   time.Second,
		RequestTimeout: 10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}
