package mavenver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareBasic(t *testing.T) {
	tests := []struct{ a, b string; want int }{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0},
		{"1.0", "1.1", -1},
		{"1.1", "1.0", 1},
		{"1.0-alpha", "1.0", -1},
		{"1.0-alpha", "1.0-beta", -1},
		{"1.0-beta", "1.0-rc", -1},
		{"1.0-rc", "1.0-snapshot", -1},
		{"1.0-snapshot", "1.0", -1},
		{"1.0", "1.0-sp", -1},
		{"1.0.1", "1.0.10", -1},
		{"2.0", "10.0", -1},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Compare(tt.a, tt.b), "Compare(%q, %q)", tt.a, tt.b)
	}
}

func TestMaxCrossRepo(t *testing.T) {
	// Scenario 5 from spec.md §8: repo M has 1.54p, repo S has 1.48q and 1.x-SNAPSHOT.
	versions := []string{"1.54p", "1.48q", "1.x-SNAPSHOT"}
	assert.Equal(t, "1.54p", Max(versions))
}

func TestIsSnapshot(t *testing.T) {
	assert.True(t, IsSnapshot("1.0-SNAPSHOT"))
	assert.True(t, IsSnapshot("1.0-snapshot"))
	assert.False(t, IsSnapshot("1.0"))
}

func TestRangeIncludes(t *testing.T) {
	r, err := ParseRange("[1.0,2.0)")
	assert.NoError(t, err)
	assert.True(t, r.Includes("1.0"))
	assert.True(t, r.Includes("1.5"))
	assert.False(t, r.Includes("2.0"))
	assert.False(t, r.Includes("0.9"))

	r, err = ParseRange("[1.5,)")
	assert.NoError(t, err)
	assert.True(t, r.Includes("99.0"))
	assert.False(t, r.Includes("1.0"))

	r, err = ParseRange("[1.5]")
	assert.NoError(t, err)
	assert.True(t, r.Includes("1.5"))
	assert.False(t, r.Includes("1.6"))
}

func TestIsRange(t *testing.T) {
	assert.True(t, IsRange("[1.0,2.0)"))
	assert.True(t, IsRange("(,2.0]"))
	assert.False(t, IsRange("1.0"))
	assert.False(t, IsRange("LATEST"))
}
