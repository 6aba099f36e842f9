// Package ids generates opaque URL-safe identifiers and millisecond timestamps.
package ids

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// EntityLength is the length of record IDs.
	EntityLength = 21
	// ShareLength is the length of share codes embedded in URLs and QR codes.
	ShareLength = 10
)

// New returns a fresh 21-character ID drawn from [A-Za-z0-9_-].
func New() string {
	return gonanoid.Must(EntityLength)
}

// ShareCode returns a fresh 10-character code from the same alphabet.
func ShareCode() string {
	return gonanoid.Must(ShareLength)
}

// Clock returns the current time in unix milliseconds.
type Clock func() int64

// SystemClock reads the wall clock.
func SystemClock() int64 {
	return time.Now().UnixMilli()
}

// Stamp returns a (createdAt, updatedAt) pair taken from one clock reading.
func (c Clock) Stamp() (createdAt, updatedAt int64) {
	now := c()
	return now, now
}
