package domain

import (
	"regexp"
	"strconv"
	"time"
)

var dateTimeRe = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d{3})?(Z|[+-]\d{2}:\d{2})?$`)

// DateTime is a validated ISO-8601 date-time string of the form
// YYYY-MM-DDTHH:mm:ss[.sss][Z|±HH:MM]. The original text is kept verbatim so
// formatting a parsed value returns exactly the input.
type DateTime struct {
	s string
}

// ParseDateTime validates s. The timezone suffix is optional; a value without
// one is read as UTC by Time.
func ParseDateTime(s string) (DateTime, error) {
	m := dateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return DateTime{}, Validationf("datetime", "%q is not an ISO date-time", s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if _, ok := civilDate(y, mo, d); !ok {
		return DateTime{}, Validationf("datetime", "%q is not a calendar date", s)
	}
	hh, _ := strconv.Atoi(m[4])
	mm, _ := strconv.Atoi(m[5])
	ss, _ := strconv.Atoi(m[6])
	if hh > 23 || mm > 59 || ss > 59 {
		return DateTime{}, Validationf("datetime", "%q has an out-of-range time", s)
	}
	if tz := m[8]; len(tz) == 6 {
		oh, _ := strconv.Atoi(tz[1:3])
		om, _ := strconv.Atoi(tz[4:6])
		if oh > 23 || om > 59 {
			return DateTime{}, Validationf("datetime", "%q has an out-of-range offset", s)
		}
	}
	return DateTime{s: s}, nil
}

// MustParseDateTime is ParseDateTime for literals; it panics on invalid input.
func MustParseDateTime(s string) DateTime {
	dt, err := ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return dt
}

// IsValidISODateTimeString reports whether s passes ParseDateTime.
func IsValidISODateTimeString(s string) bool {
	_, err := ParseDateTime(s)
	return err == nil
}

func (dt DateTime) String() string { return dt.s }

func (dt DateTime) IsZero() bool { return dt.s == "" }

// Time converts the value to an instant.
func (dt DateTime) Time() time.Time {
	if dt.s == "" {
		return time.Time{}
	}
	layout := "2006-01-02T15:04:05.999999999Z07:00"
	if !hasZone(dt.s) {
		layout = "2006-01-02T15:04:05.999999999"
	}
	t, err := time.Parse(layout, dt.s)
	if err != nil {
		// Unreachable for values built by ParseDateTime.
		return time.Time{}
	}
	return t.UTC()
}

// Date returns the calendar day written in the value, ignoring its offset.
func (dt DateTime) Date() Date {
	if dt.s == "" {
		return Date{}
	}
	return MustParseDate(dt.s[:10])
}

func hasZone(s string) bool {
	last := s[len(s)-1]
	if last == 'Z' {
		return true
	}
	return len(s) >= 6 && (s[len(s)-6] == '+' || s[len(s)-6] == '-') && s[len(s)-3] == ':'
}

func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.s), nil
}

func (dt *DateTime) UnmarshalText(b []byte) error {
	parsed, err := ParseDateTime(string(b))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
