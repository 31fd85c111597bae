package assetkey

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// segmentRegex matches a single segment of a key path.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	if name == "." || name == ".." || name == "-" {
		return false
	}
	return true
}

// New builds a Key from its segments, validating each one.
func New(segments ...string) (Key, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("asset key cannot be empty")
	}
	for _, segment := range segments {
		if segment == "" {
			return "", fmt.Errorf("asset key path contains empty segment")
		}
		if !segmentRegex.MatchString(segment) {
			return "", fmt.Errorf("invalid asset key segment format: %q", segment)
		}
		if !isValidSegmentName(segment) {
			return "", fmt.Errorf("invalid asset key segment name: %q", segment)
		}
	}
	return Key(strings.Join(segments, Separator)), nil
}

// Parse creates a Key by parsing its canonical string representation.
func Parse(raw string) (Key, error) {
	if raw == "" {
		return "", fmt.Errorf("asset key cannot be empty")
	}
	return New(strings.Split(raw, Separator)...)
}

// MustParse is like Parse but panics on error. It is intended for tests and
// package-level fixtures.
func MustParse(raw string) Key {
	k, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// Sort orders keys in place using Compare.
func Sort(keys []Key) {
	slices.SortFunc(keys, Key.Compare)
}

// Sorted returns a sorted copy of keys.
func Sorted(keys []Key) []Key {
	out := slices.Clone(keys)
	Sort(out)
	return out
}
