package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Date is a calendar day anchored to UTC midnight.
// The only way to obtain a non-zero Date is ParseDate (or the helpers built on
// it), so holders never need to re-validate.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string. The three components must round-trip
// through the calendar exactly, which rejects 2024-02-30 or 1900-02-29.
func ParseDate(s string) (Date, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, Validationf("date", "%q is not in YYYY-MM-DD form", s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t, ok := civilDate(y, mo, d)
	if !ok {
		return Date{}, Validationf("date", "%q is not a calendar date", s)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on invalid input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsValidISODateString reports whether s is a valid YYYY-MM-DD calendar date.
func IsValidISODateString(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// civilDate rebuilds y-m-d in UTC and reports whether time.Date normalised any
// component, i.e. whether the input names a real day.
func civilDate(y, m, d int) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t, t.Year() == y && int(t.Month()) == m && t.Day() == d
}

func (d Date) String() string { return d.t.Format(dateLayout) }

// Time returns the UTC midnight instant of the day.
func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// NewDateRange validates that start is not after end.
func NewDateRange(start, end Date) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, Validationf("endDate", "end %s is before start %s", end, start)
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps uses closed-interval semantics: two ranges sharing a single boundary
// day overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
