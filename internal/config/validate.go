package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration correctness without mutating it. Zero values mean "use the default" and are valid.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ---- bus ----

	if cfg.Bus.SpeedKHz < 0 || cfg.Bus.SpeedKHz > 1000 {
		return fmt.Errorf("bus: speed_khz %d outside 0..1000", cfg.Bus.SpeedKHz)
	}
	if cfg.Bus.Address > 0x7F {
		return fmt.Errorf("bus: address %#x is not a 7-bit address", cfg.Bus.Address)
	}

	// ---- http ----

	if cfg.HTTP.URL != "" {
		u, err := url.Parse(cfg.HTTP.URL)
		if err != nil {
			return fmt.Errorf("http: url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("http: url %q must be http or https", cfg.HTTP.URL)
		}
	}
	if cfg.HTTP.TimeoutMs < 0 {
		return fmt.Errorf("http: timeout_ms must not be negative")
	}

	// ---- mqtt ----

	if cfg.MQTT.Broker != "" {
		u, err := url.Parse(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("mqtt: broker: %w", err)
		}
		switch u.Scheme {
		case "tcp", "ssl", "tls", "ws", "wss":
		default:
			return fmt.Errorf("mqtt: broker %q: unsupported scheme %q", cfg.MQTT.Broker, u.Scheme)
		}
	}
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt: qos %d outside 0..2", cfg.MQTT.QoS)
	}
	if cfg.MQTT.PublishIntervalMs < 0 {
		return fmt.Errorf("mqtt: publish_interval_ms must not be negative")
	}
	if strings.ContainsAny(cfg.MQTT.TopicPrefix, "+#") {
		return fmt.Errorf("mqtt: topic_prefix %q must not contain wildcards", cfg.MQTT.TopicPrefix)
	}

	return nil
}
