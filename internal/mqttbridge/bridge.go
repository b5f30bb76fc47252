// Package mqttbridge exposes the clock over MQTT: the current time is published periodically and the time, the alarm
// and the interrupt flags can be set or cleared by publishing to command topics.
//
// Topics, below the configured prefix:
//
//	time               published every interval, YYYY-MM-DDTHH:MM:SS
//	status             retained "online", "offline" as last will
//	set                ISO 8601 or HTTP date; sets the clock
//	alarm              ISO 8601 or HTTP date; sets the alarm, echoed retained on alarm/current
//	interrupts/clear   any payload; clears the flags and publishes the old ones on interrupts
//	error              error text of the last failed command
package mqttbridge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ajanata/rv1805c3/internal/config"
	"github.com/ajanata/rv1805c3/rv1805"
)

const publishTimeout = 5 * time.Second

// Clock is the part of rv1805.Device used by the bridge.
type Clock interface {
	CurrentDateTime() (string, error)
	SetDateTimeFromISO8601(s string) (rv1805.DateTime, error)
	SetDateTimeFromHTTPDate(s string) (rv1805.DateTime, error)
	SetAlarmFromISO8601(s string) (rv1805.DateTime, error)
	SetAlarmFromHTTPDate(s string) (rv1805.DateTime, error)
	ClearInterrupts() (rv1805.InterruptFlags, error)
}

type Bridge struct {
	client   mqtt.Client
	prefix   string
	qos      byte
	interval time.Duration

	// mu serializes clock access; paho runs handlers on its own goroutines.
	mu    sync.Mutex
	clock Clock
}

func New(client mqtt.Client, clock Clock, cfg config.MQTTConfig) *Bridge {
	interval := time.Duration(cfg.PublishIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Duration(config.DefaultPublishIntervalMs) * time.Millisecond
	}
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = config.DefaultTopicPrefix
	}
	return &Bridge{
		client:   client,
		clock:    clock,
		prefix:   prefix,
		qos:      cfg.QoS,
		interval: interval,
	}
}

// Dial connects to the broker described by cfg, registering "offline" as the last will on the status topic.
func Dial(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetWill(cfg.TopicPrefix+"/status", "offline", cfg.QoS, true)

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, tok.Error())
	}
	return client, nil
}

func (b *Bridge) topic(name string) string {
	return b.prefix + "/" + name
}

// Run subscribes to the command topics and publishes the time every interval until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	handlers := map[string]mqtt.MessageHandler{
		b.topic("set"):              b.handleSet,
		b.topic("alarm"):            b.handleAlarm,
		b.topic("interrupts/clear"): b.handleClear,
	}
	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		tok := b.client.Subscribe(topic, b.qos, h)
		if tok.Wait() && tok.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, tok.Error())
		}
		topics = append(topics, topic)
	}
	defer b.client.Unsubscribe(topics...).WaitTimeout(publishTimeout)

	if err := b.publish("status", true, "online"); err != nil {
		return err
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		if err := b.PublishTime(); err != nil {
			log.Printf("publish time: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PublishTime reads the clock and publishes it on the time topic.
func (b *Bridge) PublishTime() error {
	b.mu.Lock()
	now, err := b.clock.CurrentDateTime()
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}
	return b.publish("time", false, now)
}

func (b *Bridge) handleSet(_ mqtt.Client, msg mqtt.Message) {
	b.mu.Lock()
	dt, err := parseInto(string(msg.Payload()), b.clock.SetDateTimeFromISO8601, b.clock.SetDateTimeFromHTTPDate)
	b.mu.Unlock()
	if err != nil {
		b.fail("set", err)
		return
	}
	log.Printf("clock set to %s", dt)
	if err := b.publish("time", false, dt.String()); err != nil {
		log.Printf("publish time: %v", err)
	}
}

func (b *Bridge) handleAlarm(_ mqtt.Client, msg mqtt.Message) {
	b.mu.Lock()
	dt, err := parseInto(string(msg.Payload()), b.clock.SetAlarmFromISO8601, b.clock.SetAlarmFromHTTPDate)
	b.mu.Unlock()
	if err != nil {
		b.fail("alarm", err)
		return
	}
	log.Printf("alarm set to %s", dt)
	if err := b.publish("alarm/current", true, dt.String()); err != nil {
		log.Printf("publish alarm: %v", err)
	}
}

func (b *Bridge) handleClear(_ mqtt.Client, _ mqtt.Message) {
	b.mu.Lock()
	flags, err := b.clock.ClearInterrupts()
	b.mu.Unlock()
	if err != nil {
		b.fail("interrupts/clear", err)
		return
	}
	if err := b.publish("interrupts", false, FormatFlags(flags)); err != nil {
		log.Printf("publish interrupts: %v", err)
	}
}

func (b *Bridge) fail(command string, err error) {
	log.Printf("%s: %v", command, err)
	if perr := b.publish("error", false, command+": "+err.Error()); perr != nil {
		log.Printf("publish error: %v", perr)
	}
}

func (b *Bridge) publish(name string, retained bool, payload string) error {
	tok := b.client.Publish(b.topic(name), b.qos, retained, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out", b.topic(name))
	}
	return tok.Error()
}

// parseInto picks the date format: ISO 8601 dates start with the year, HTTP dates with a name.
func parseInto(payload string, iso, http func(string) (rv1805.DateTime, error)) (rv1805.DateTime, error) {
	payload = strings.TrimSpace(payload)
	if payload != "" && payload[0] >= '0' && payload[0] <= '9' {
		return iso(payload)
	}
	return http(payload)
}

var flagNames = []struct {
	t    rv1805.InterruptType
	name string
}{
	{rv1805.InterruptWatchdog, "watchdog"},
	{rv1805.InterruptBatteryLow, "battery-low"},
	{rv1805.InterruptTimer, "timer"},
	{rv1805.InterruptAlarm, "alarm"},
	{rv1805.InterruptExternal, "external"},
}

// FormatFlags lists the set flags by name, comma separated, or "none".
func FormatFlags(f rv1805.InterruptFlags) string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.t) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
