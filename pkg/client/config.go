package client

import (
	"flag"
	"os"
)

// Config provides common options to reach the broker.
type Config struct {
	// BrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL string
}

var defaultConfig = Config{
	BrokerURL: "mqtt://localhost:1883/ringrx/",
}

func init() {
	if val := os.Getenv("RINGRX_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewClient creates a client using the config.
func (c *Config) NewClient() (*Client, error) {
	return New(c.BrokerURL)
}
