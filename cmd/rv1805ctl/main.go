// Command rv1805ctl talks to an RV-1805-C3 real time clock on a Linux I2C bus.
//
//	rv1805ctl [flags] <command> [args]
//
// Run "rv1805ctl help" for the commands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/physic"

	"github.com/ajanata/rv1805c3/internal/config"
	"github.com/ajanata/rv1805c3/internal/mqttbridge"
	"github.com/ajanata/rv1805c3/periphbus"
	"github.com/ajanata/rv1805c3/rv1805"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	busName    = flag.String("bus", "", "I2C bus name, overrides bus.name")
	address    = flag.Uint("addr", 0, "device address, overrides bus.address")
	syncURL    = flag.String("url", "", "HTTP date source, overrides http.url")
	broker     = flag.String("broker", "", "MQTT broker URL, overrides mqtt.broker")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("rv1805ctl: ")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: rv1805ctl [flags] <command> [args]")
		flag.PrintDefaults()
		printHelp(flag.CommandLine.Output())
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bus, err := periphbus.Open(cfg.Bus.Name, physic.Frequency(cfg.Bus.SpeedKHz)*physic.KiloHertz)
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	dev := rv1805.New(bus)
	dev.Address = cfg.Bus.Address

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{dev: &dev, cfg: cfg, client: http.DefaultClient, out: os.Stdout}
	switch args := flag.Args(); args[0] {
	case "console":
		fmt.Printf("RV-1805-C3 on %s, type 'help' for commands, 'quit' to exit\n", bus)
		err = c.console(ctx, os.Stdin)
	case "mqtt":
		err = runBridge(ctx, &dev, cfg.MQTT)
	default:
		err = c.run(ctx, args)
	}
	if errors.Is(err, errUsage) {
		stop()
		bus.Close()
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		stop()
		bus.Close()
		log.Fatal(err)
	}
}

// loadConfig reads the configuration file, if any, and applies the flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	if *busName != "" {
		cfg.Bus.Name = *busName
	}
	if *address != 0 {
		if *address > 0x7F {
			return nil, fmt.Errorf("address %#x is not a 7-bit address", *address)
		}
		cfg.Bus.Address = uint8(*address)
	}
	if *syncURL != "" {
		cfg.HTTP.URL = *syncURL
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	return cfg, config.Validate(cfg)
}

func runBridge(ctx context.Context, dev *rv1805.Device, cfg config.MQTTConfig) error {
	if cfg.Broker == "" {
		return errors.New("mqtt: no broker configured")
	}
	client, err := mqttbridge.Dial(cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	log.Printf("publishing to %s/time on %s", cfg.TopicPrefix, cfg.Broker)
	return mqttbridge.New(client, dev, cfg).Run(ctx)
}
