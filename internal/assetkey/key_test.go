package assetkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  []string
	}{
		{name: "single segment", raw: "orders", expected: []string{"orders"}},
		{name: "multi segment", raw: "sales/daily/orders", expected: []string{"sales", "daily", "orders"}},
		{name: "dots and dashes inside segment", raw: "db.v2/my-table", expected: []string{"db.v2", "my-table"}},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - empty segment", raw: "a//b", expectErr: true},
		{name: "error - trailing separator", raw: "a/", expectErr: true},
		{name: "error - invalid character", raw: "a/b c", expectErr: true},
		{name: "error - dot segment", raw: "a/./b", expectErr: true},
		{name: "error - double dot segment", raw: "..", expectErr: true},
		{name: "error - hyphen segment", raw: "a/-", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, key.Path())
			assert.Equal(t, tc.raw, key.String())
		})
	}
}

func TestKey_Last(t *testing.T) {
	assert.Equal(t, "orders", MustParse("sales/orders").Last())
	assert.Equal(t, "orders", MustParse("orders").Last())
}

func TestKey_Compare(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"a", "a", 0},
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "a/b", -1},
		{"a/b", "a", 1},
		// Segment-wise ordering differs from plain string ordering here:
		// "-" sorts before "/" as bytes, but "a" is a prefix of "a-b".
		{"a/z", "a-b", -1},
		{"x/a", "x/b", -1},
	}

	for _, tc := range testCases {
		t.Run(tc.a+" vs "+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.expected, MustParse(tc.a).Compare(MustParse(tc.b)))
		})
	}
}

func TestSorted(t *testing.T) {
	keys := []Key{MustParse("b"), MustParse("a/c"), MustParse("a"), MustParse("a/b")}
	sorted := Sorted(keys)

	assert.Equal(t, []Key{MustParse("a"), MustParse("a/b"), MustParse("a/c"), MustParse("b")}, sorted)
	assert.Equal(t, MustParse("b"), keys[0], "input must not be reordered")
}

func TestCompareSets(t *testing.T) {
	a := []Key{MustParse("a"), MustParse("b")}
	b := []Key{MustParse("a"), MustParse("c")}
	prefix := []Key{MustParse("a")}

	assert.Equal(t, -1, CompareSets(a, b))
	assert.Equal(t, 1, CompareSets(b, a))
	assert.Equal(t, -1, CompareSets(prefix, a))
	assert.Equal(t, 0, CompareSets(a, []Key{MustParse("a"), MustParse("b")}))
}
