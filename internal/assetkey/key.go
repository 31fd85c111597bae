package assetkey

import (
	"strings"
)

// Separator joins the segments of a Key in its canonical string form.
const Separator = "/"

// Key is the structured, comparable identifier of a logical data artifact.
// The zero value is the empty key and is never produced by Parse or New.
type Key string

// String serializes the Key into its canonical path string representation.
func (k Key) String() string {
	return string(k)
}

// Path returns a copy of the key's segments.
func (k Key) Path() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), Separator)
}

// Last returns the final path segment, which is the key's short name.
func (k Key) Last() string {
	s := string(k)
	if i := strings.LastIndex(s, Separator); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsZero reports whether the key is the empty key.
func (k Key) IsZero() bool {
	return k == ""
}

// Compare orders keys segment by segment. A key that is a strict prefix of
// another sorts first. It returns -1, 0 or +1.
func (k Key) Compare(other Key) int {
	a, b := k.Path(), other.Path()
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

// CompareSets orders two sorted key lists element by element, a shorter list
// that is a prefix of the longer one sorting first.
func CompareSets(a, b []Key) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
