package config

import "strings"

const (
	DefaultAddress           = 0x69
	DefaultHTTPTimeoutMs     = 5000
	DefaultClientID          = "rv1805ctl"
	DefaultTopicPrefix       = "rv1805"
	DefaultPublishIntervalMs = 1000
)

// Normalize fills in defaults. It must be called only after Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Bus.Address == 0 {
		cfg.Bus.Address = DefaultAddress
	}

	if cfg.HTTP.TimeoutMs == 0 {
		cfg.HTTP.TimeoutMs = DefaultHTTPTimeoutMs
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultClientID
	}
	cfg.MQTT.TopicPrefix = strings.TrimRight(cfg.MQTT.TopicPrefix, "/")
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.MQTT.PublishIntervalMs == 0 {
		cfg.MQTT.PublishIntervalMs = DefaultPublishIntervalMs
	}
}
