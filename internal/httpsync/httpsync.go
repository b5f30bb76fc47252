// Package httpsync sets the clock from the Date header of an HTTP server, for hosts without NTP.
package httpsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/ajanata/rv1805c3/rv1805"
)

var (
	ErrNoDate      = errors.New("httpsync: response has no Date header")
	ErrInvalidDate = errors.New("httpsync: Date header is not a valid header value")
)

// Clock is the part of rv1805.Device used here.
type Clock interface {
	Synchronize(dt rv1805.DateTime) error
}

// Sync sends a HEAD request to url, parses the Date header of the response and writes it to clock. The status code
// does not matter, servers send Date on errors too. Seconds resolution only: hundredths are written as 0.
func Sync(ctx context.Context, clock Clock, client *http.Client, url string) (rv1805.DateTime, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return rv1805.DateTime{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return rv1805.DateTime{}, err
	}
	resp.Body.Close()

	date := resp.Header.Get("Date")
	if date == "" {
		return rv1805.DateTime{}, ErrNoDate
	}
	if !httpguts.ValidHeaderFieldValue(date) {
		return rv1805.DateTime{}, ErrInvalidDate
	}

	dt, err := rv1805.ParseHTTPDate(date)
	if err != nil {
		return rv1805.DateTime{}, err
	}
	if err := clock.Synchronize(dt); err != nil {
		return rv1805.DateTime{}, fmt.Errorf("write clock: %w", err)
	}
	return dt, nil
}
