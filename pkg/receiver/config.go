package receiver

import (
	"flag"
	"os"
	"time"

	"github.com/serialkit/ringrx/pkg/telemetry"
)

// Config defines the configuration of a receiver daemon.
type Config struct {
	// ID identifies this receiver on the broker.
	ID string
	// Capacity is the ring capacity, a power of two.
	Capacity int
	// Device is the serial device path. Empty selects the bridge engine.
	Device string
	// BridgeTopic is the topic the peripheral bridge publishes bytes on,
	// relative to the broker URL's topic prefix.
	BridgeTopic string
	// BrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL string
	// MonitorAddr is the websocket monitor listen address. Empty disables.
	MonitorAddr string
	// StatusInterval is the telemetry publish interval.
	StatusInterval time.Duration
	// PendingLimit bounds the bridge engine's pending FIFO.
	PendingLimit int
}

var defaultConfig = Config{
	Capacity:       64,
	BridgeTopic:    "bridge/rx",
	BrokerURL:      "mqtt://localhost:1883/ringrx/",
	StatusInterval: telemetry.DefaultInterval,
}

func init() {
	if val := os.Getenv("RINGRX_MQTT_URL"); val != "" {
		defaultConfig.BrokerURL = val
	}
	defaultConfig.ID = telemetry.MachineID()
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Receiver ID")
	flag.IntVar(&defaultConfig.Capacity, "capacity", defaultConfig.Capacity, "Ring capacity, a power of two.")
	flag.StringVar(&defaultConfig.Device, "dev", defaultConfig.Device, "Serial device path. Empty to receive from the bridge topic.")
	flag.StringVar(&defaultConfig.BridgeTopic, "topic", defaultConfig.BridgeTopic, "Bridge topic relative to the broker topic prefix.")
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.MonitorAddr, "monitor", defaultConfig.MonitorAddr, "Websocket monitor listen address. Empty to disable.")
	flag.DurationVar(&defaultConfig.StatusInterval, "status-interval", defaultConfig.StatusInterval, "Status publish interval.")
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
