package sample

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	ErrUnknownFormat     = errors.New("unknown sample format")
	ErrFormatMismatch    = errors.New("sample format mismatch")
	ErrKindMismatch      = errors.New("sample kind does not match format")
	ErrShortBuffer       = errors.New("buffer is not a whole number of samples")
)

// Format is the on-disk sample encoding declared in the binary header.
// Values are the data sample format codes used by the file.
type Format int

const (
	IBMFloat32       Format = 1
	Int32            Format = 2
	Int16            Format = 3
	FixedPointGain32 Format = 4
	IEEEFloat32      Format = 5
	NotInUse1        Format = 6
	NotInUse2        Format = 7
	Int8             Format = 8
)

// FormatFromCode validates a binary header format code.
func FormatFromCode(code int) (Format, error) {
	f := Format(code)
	if _, ok := registry[f]; !ok {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownFormat, code)
	}
	return f, nil
}

// ParseFormat accepts either a numeric code or a format name.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		return FormatFromCode(code)
	}

	name := strings.ToLower(s)
	for f, c := range registry {
		if name == c.name {
			return f, nil
		}
		for _, alias := range c.aliases {
			if name == alias {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Code returns the binary header code of f.
func (f Format) Code() int { return int(f) }

func (f Format) String() string {
	if c, ok := registry[f]; ok {
		return c.name
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

// Description returns the human readable encoding name.
func (f Format) Description() string {
	if c, ok := registry[f]; ok {
		return c.desc
	}
	return "unknown"
}

// Supported reports whether statistics can be computed for f.
func (f Format) Supported() bool {
	c, ok := registry[f]
	return ok && c.kind != KindNone
}

// Kind returns the native representation samples of f decode to.
func (f Format) Kind() Kind {
	if c, ok := registry[f]; ok {
		return c.kind
	}
	return KindNone
}
