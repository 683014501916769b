// Package result defines the data model shared by the PDV store, the
// submission handler and the aggregation reporter.
//
// A Record captures the latest Outcome submitted for one named check.
// Records are keyed by name; names must be usable as storage keys and may
// not contain the reserved delimiter used by the legacy text encoding.
package result

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Delimiter separates fields in the legacy "name:code:time" encoding.
// It is forbidden in check names.
const Delimiter = ":"

// InternalErrorName is the reserved name under which a failing record is
// stored whenever a submission carries a malformed outcome.
const InternalErrorName = "pdv_internal_error"

// MaxNameLen is the longest accepted name in bytes. A name plus the
// ".results" file suffix must fit in a 255 byte path component.
const MaxNameLen = 255 - len(".results")

var (
	// ErrInvalidInput is returned for an outcome other than "pass" or "fail".
	ErrInvalidInput = errors.New("invalid result")

	// ErrInvalidName is returned for a name that is not a safe storage key.
	ErrInvalidName = errors.New("invalid name")

	// ErrCorruptRecord is returned when a stored record cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrUnknownOutcome is reported when a decoded record carries an
	// outcome that is neither pass nor fail.
	ErrUnknownOutcome = errors.New("unknown outcome")

	// ErrStorageUnavailable is returned when the store root cannot be
	// provisioned or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Outcome is the verdict of one named check.
type Outcome string

const (
	// Pass is a successful check.
	Pass Outcome = "pass"
	// Fail is a failed check.
	Fail Outcome = "fail"
)

// legacyCodes maps the numeric codes of the legacy encoding to outcomes.
// The code is the outcome's index in this slice.
var legacyCodes = []Outcome{Pass, Fail}

// Valid reports whether o is Pass or Fail.
func (o Outcome) Valid() bool {
	return o == Pass || o == Fail
}

// String returns the outcome text.
func (o Outcome) String() string {
	return string(o)
}

// ParseOutcome converts submitted text into an Outcome.
// The match is case-sensitive: "Pass" is rejected.
func ParseOutcome(text string) (Outcome, error) {
	o := Outcome(text)
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidInput, text, Pass, Fail)
	}
	return o, nil
}

// Record is the persisted unit: the latest outcome for one name.
type Record struct {
	Name    string
	Outcome Outcome
	Time    time.Time
}

// ValidateName checks that name can be used as a storage key.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case len(name) > MaxNameLen:
		return fmt.Errorf("%w: name is %d bytes, limit is %d", ErrInvalidName, len(name), MaxNameLen)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case strings.Contains(name, Delimiter):
		return fmt.Errorf("%w: %q contains the reserved %q character", ErrInvalidName, name, Delimiter)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidName, name)
	}
	return nil
}

// Seconds converts t to floating point seconds since the epoch.
func Seconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}

// FromSeconds converts floating point seconds since the epoch to a time.
func FromSeconds(s float64) time.Time {
	sec := int64(s)
	nsec := int64((s - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
