package input

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds the raw value list in bytes.
var DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize.
var EnvMaxInputSize = "SORTSTEP_MAX_INPUT_SIZE"

// DefaultMaxGenerateSize bounds the number of values Generate produces.
var DefaultMaxGenerateSize = 10000

// EnvMaxGenerateSize overrides DefaultMaxGenerateSize.
var EnvMaxGenerateSize = "SORTSTEP_MAX_GENERATE_SIZE"

var (
	ErrInputTooLarge = errors.New("value list exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("value list contains invalid UTF-8 sequences")
)

// Sanitize prepares a raw value list for Parse. Line breaks, tabs and
// semicolons become commas so pasted columns and rows parse the same way;
// any other control character (ANSI escapes, NULs) is removed.
func Sanitize(raw string) (string, error) {
	if limit := maxInputSize(); len(raw) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(raw), limit)
	}
	if !utf8.ValidString(raw) {
		return "", ErrInvalidUTF8
	}

	return strings.Map(func(r rune) rune {
		switch {
		case isSeparator(r):
			return ','
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, raw), nil
}

func isSeparator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\t' || r == ';'
}

func maxInputSize() int {
	return envLimit(EnvMaxInputSize, DefaultMaxInputSize)
}

func maxGenerateSize() int {
	return envLimit(EnvMaxGenerateSize, DefaultMaxGenerateSize)
}

func envLimit(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return def
}
