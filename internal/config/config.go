// Package config holds the rv1805ctl configuration file format.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bus  BusConfig  `yaml:"bus"`
	HTTP HTTPConfig `yaml:"http"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// ---- BUS ----

type BusConfig struct {
	// Name as understood by periph's i2creg, e.g. "/dev/i2c-1" or "1". Empty picks the first bus.
	Name     string `yaml:"name"`
	SpeedKHz int    `yaml:"speed_khz"`
	Address  uint8  `yaml:"address"`
}

// ---- HTTP DATE SYNC ----

type HTTPConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- MQTT BRIDGE ----

type MQTTConfig struct {
	Broker            string `yaml:"broker"`
	ClientID          string `yaml:"client_id"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	TopicPrefix       string `yaml:"topic_prefix"`
	PublishIntervalMs int    `yaml:"publish_interval_ms"`
	QoS               byte   `yaml:"qos"`
}

// Load reads, validates and normalizes the file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse is Load without the file. Empty input yields the defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(raw)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	Normalize(cfg)
	return cfg, nil
}
