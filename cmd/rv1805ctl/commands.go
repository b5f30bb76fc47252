package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/ajanata/rv1805c3/internal/config"
	"github.com/ajanata/rv1805c3/internal/httpsync"
	"github.com/ajanata/rv1805c3/internal/mqttbridge"
	"github.com/ajanata/rv1805c3/rv1805"
)

var errUsage = errors.New("wrong arguments")

var alarmModes = map[string]rv1805.AlarmMode{
	"disabled":  rv1805.AlarmDisabled,
	"year":      rv1805.AlarmOncePerYear,
	"month":     rv1805.AlarmOncePerMonth,
	"week":      rv1805.AlarmOncePerWeek,
	"day":       rv1805.AlarmOncePerDay,
	"hour":      rv1805.AlarmOncePerHour,
	"minute":    rv1805.AlarmOncePerMinute,
	"second":    rv1805.AlarmOncePerSecond,
	"tenth":     rv1805.AlarmOncePerTenth,
	"hundredth": rv1805.AlarmOncePerHundredth,
}

// cli runs single commands against one device. It is not safe for concurrent use, neither is the device.
type cli struct {
	dev    *rv1805.Device
	cfg    *config.Config
	client *http.Client
	out    io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "help", "?":
		printHelp(c.out)
		return nil

	case "init":
		if len(args) != 0 {
			return errUsage
		}
		if err := c.dev.Configure(rv1805.Config{Address: c.cfg.Bus.Address}); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "RV-1805-C3 configured at %#02x\n", c.dev.Address)

	case "now":
		if len(args) != 0 {
			return errUsage
		}
		now, err := c.dev.CurrentDateTime()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, now)

	case "set":
		if len(args) != 1 {
			return errUsage
		}
		dt, err := c.dev.SetDateTimeFromISO8601(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "clock set to %s\n", dt)

	case "set-http":
		// unquoted dates arrive as several words
		if len(args) == 0 {
			return errUsage
		}
		dt, err := c.dev.SetDateTimeFromHTTPDate(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "clock set to %s\n", dt)

	case "sync-http":
		url := c.cfg.HTTP.URL
		switch len(args) {
		case 0:
		case 1:
			url = args[0]
		default:
			return errUsage
		}
		if url == "" {
			return errors.New("no url given and none configured")
		}
		if c.cfg.HTTP.TimeoutMs > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.HTTP.TimeoutMs)*time.Millisecond)
			defer cancel()
		}
		dt, err := httpsync.Sync(ctx, c.dev, c.client, url)
		if err != nil {
			return fmt.Errorf("sync from %s: %w", url, err)
		}
		fmt.Fprintf(c.out, "clock set to %s from %s\n", dt, url)

	case "alarm":
		if len(args) != 1 {
			return errUsage
		}
		dt, err := c.dev.SetAlarmFromISO8601(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "alarm set to %s\n", dt)

	case "alarm-mode":
		if len(args) != 1 {
			return errUsage
		}
		mode, ok := alarmModes[args[0]]
		if !ok {
			return fmt.Errorf("unknown alarm mode %q", args[0])
		}
		return c.dev.SetAlarmMode(mode)

	case "countdown":
		cfg, err := parseCountdown(args)
		if err != nil {
			return err
		}
		return c.dev.SetCountdownTimer(cfg)

	case "clear":
		if len(args) != 0 {
			return errUsage
		}
		flags, err := c.dev.ClearInterrupts()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "cleared: %s\n", mqttbridge.FormatFlags(flags))

	case "reset":
		if len(args) != 0 {
			return errUsage
		}
		return c.dev.Reset()

	case "sleep":
		if len(args) != 1 {
			return errUsage
		}
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms < 0 || ms > 56 || ms%8 != 0 {
			return fmt.Errorf("sleep delay %q must be one of 0, 8, 16 .. 56 ms", args[0])
		}
		return c.dev.Sleep(rv1805.SleepWait(ms/8), false)

	default:
		return fmt.Errorf("unknown command %q (type 'help' for available commands)", cmd)
	}
	return nil
}

// parseCountdown reads "<period> <s|m> [repeat] [pulse]".
func parseCountdown(args []string) (rv1805.CountdownConfig, error) {
	var cfg rv1805.CountdownConfig
	if len(args) < 2 {
		return cfg, errUsage
	}
	period, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return cfg, fmt.Errorf("countdown period %q must be 0..255", args[0])
	}
	cfg.Period = uint8(period)

	switch args[1] {
	case "s":
		cfg.Unit = rv1805.CountdownSeconds
	case "m":
		cfg.Unit = rv1805.CountdownMinutes
	default:
		return cfg, fmt.Errorf("countdown unit %q must be s or m", args[1])
	}

	for _, opt := range args[2:] {
		switch opt {
		case "repeat":
			cfg.Repeat = true
		case "pulse":
			cfg.InterruptAsPulse = true
		default:
			return cfg, fmt.Errorf("unknown countdown option %q", opt)
		}
	}
	return cfg, nil
}

// console runs commands read line by line from in until EOF or quit. Lines are split like a shell would.
func (c *cli) console(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			return nil
		case "console", "mqtt":
			fmt.Fprintf(c.out, "error: %s is not available in the console\n", args[0])
			continue
		}
		if err := c.run(ctx, args); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	fmt.Fprintln(c.out)
	return scanner.Err()
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `Available commands:
  init                                  check the part number and configure the oscillator
  now                                   print the current date and time
  set <YYYY-MM-DDTHH:MM:SS>             set the clock
  set-http <Www, dd Mon yyyy HH:MM:SS GMT>
                                        set the clock from an HTTP date
  sync-http [url]                       set the clock from the Date header of url
  alarm <YYYY-MM-DDTHH:MM:SS>           set the alarm
  alarm-mode <mode>                     disabled, year, month, week, day, hour, minute, second, tenth or hundredth
  countdown <period> <s|m> [repeat] [pulse]
                                        start the countdown timer
  clear                                 clear and print the interrupt flags
  reset                                 software reset
  sleep <ms>                            enter sleep after 0, 8 .. 56 ms
  console                               read commands from stdin
  mqtt                                  run the MQTT bridge until interrupted
`)
}
