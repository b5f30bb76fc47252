package rv1805

import (
	"strconv"
	"strings"
)

const (
	formatISO8601  = "ISO 8601 date"
	formatHTTPDate = "HTTP date"
)

var (
	shortDayNames   = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	shortMonthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// ParseISO8601 parses a date in the form 2018-01-01T08:00:00. A fractional second or zone suffix such as ".25",
// "Z" or "+02:00" is accepted and ignored, and hundredths are always 0.
//
// The weekday cannot be known without calendar arithmetic, so it is always Sunday and will usually be wrong.
func ParseISO8601(s string) (DateTime, error) {
	p := scanner{format: formatISO8601, input: s, rest: s}
	year := p.digits(4, "year")
	p.expect('-')
	month := p.digits(2, "month")
	p.expect('-')
	day := p.digits(2, "day")
	p.expect('T')
	hour := p.digits(2, "hour")
	p.expect(':')
	minute := p.digits(2, "minute")
	p.expect(':')
	second := p.digits(2, "second")
	if p.err == nil && p.rest != "" && !strings.ContainsRune(".,Zz+-", rune(p.rest[0])) {
		p.fail("unexpected " + strconv.Quote(p.rest) + " after seconds")
	}
	if p.err != nil {
		return DateTime{}, p.err
	}

	var dt DateTime
	if err := dt.Set(year, month, day, Sunday, hour, minute, second, 0); err != nil {
		return DateTime{}, err
	}
	return dt, nil
}

// ParseHTTPDate parses an RFC 1123 date as sent in HTTP headers, such as "Wed, 21 Oct 2015 07:28:00 GMT". The
// "Date:" header name may be included. Hundredths are always 0.
func ParseHTTPDate(s string) (DateTime, error) {
	v := s
	if len(v) >= 5 && strings.EqualFold(v[:5], "Date:") {
		v = v[5:]
	}
	fields := strings.Fields(v)
	if len(fields) != 5 && len(fields) != 6 {
		return DateTime{}, &ParseError{formatHTTPDate, s, "expected \"Www, dd Mon yyyy HH:MM:SS GMT\""}
	}
	if len(fields) == 6 && fields[5] != "GMT" {
		return DateTime{}, &ParseError{formatHTTPDate, s, "zone " + strconv.Quote(fields[5]) + " is not GMT"}
	}

	name, ok := strings.CutSuffix(fields[0], ",")
	if !ok {
		return DateTime{}, &ParseError{formatHTTPDate, s, "missing comma after day name"}
	}
	weekday := lookup(shortDayNames[:], name)
	if weekday < 0 {
		return DateTime{}, &ParseError{formatHTTPDate, s, "unknown day name " + strconv.Quote(name)}
	}
	month := lookup(shortMonthNames[:], fields[2])
	if month < 0 {
		return DateTime{}, &ParseError{formatHTTPDate, s, "unknown month name " + strconv.Quote(fields[2])}
	}

	p := scanner{format: formatHTTPDate, input: s, rest: fields[1]}
	day := p.digits(2, "day")
	p.end()
	p.rest = fields[3]
	year := p.digits(4, "year")
	p.end()
	p.rest = fields[4]
	hour := p.digits(2, "hour")
	p.expect(':')
	minute := p.digits(2, "minute")
	p.expect(':')
	second := p.digits(2, "second")
	p.end()
	if p.err != nil {
		return DateTime{}, p.err
	}

	var dt DateTime
	if err := dt.Set(year, month+1, day, Weekday(weekday), hour, minute, second, 0); err != nil {
		return DateTime{}, err
	}
	return dt, nil
}

// scanner consumes rest token by token, keeping only the first error.
type scanner struct {
	format string
	input  string
	rest   string
	err    error
}

func (p *scanner) fail(msg string) {
	if p.err == nil {
		p.err = &ParseError{p.format, p.input, msg}
	}
}

// digits consumes exactly n decimal digits.
func (p *scanner) digits(n int, what string) int {
	if p.err != nil {
		return 0
	}
	if len(p.rest) < n {
		p.fail(what + " is too short")
		return 0
	}
	v := 0
	for i := 0; i < n; i++ {
		c := p.rest[i]
		if c < '0' || c > '9' {
			p.fail(what + ": " + strconv.Quote(p.rest[:n]) + " is not a number")
			return 0
		}
		v = v*10 + int(c-'0')
	}
	p.rest = p.rest[n:]
	return v
}

func (p *scanner) expect(c byte) {
	if p.err != nil {
		return
	}
	if p.rest == "" || p.rest[0] != c {
		p.fail("expected " + strconv.QuoteRune(rune(c)))
		return
	}
	p.rest = p.rest[1:]
}

func (p *scanner) end() {
	if p.err == nil && p.rest != "" {
		p.fail("unexpected " + strconv.Quote(p.rest))
	}
}

func lookup(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
