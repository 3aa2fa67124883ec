package jobs

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedHost(n int) func() int {
	return func() int { return n }
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		makeopts string
		want     int
	}{
		{"short flag", "-j4", 4},
		{"short flag with space", "-j 6", 6},
		{"long flag with equals", "--jobs=12", 12},
		{"long flag with space", "--jobs 3", 3},
		{"flag among others", "-s --load-average=4 -j8", 8},
		{"empty string", "", 7},
		{"flag without digits", "-j", 7},
		{"flag followed by another flag", "-j -l4", 7},
		{"zero jobs", "-j0", 7},
		{"no job flag", "-s -k", 7},
		{"load average is not a job flag", "-l5", 7},
		{"embedded token ignored", "--no-jobs4", 7},
		{"first of two flags wins", "-j2 -j9", 2},
		{"first of mixed flags wins", "--jobs=5 -j1", 5},
		{"short before long", "-j3 --jobs=10", 3},
		{"leading whitespace", "   -j16", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.makeopts, fixedHost(7)))
		})
	}
}

func TestResolve_NeverZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Resolve("", fixedHost(0)))
	assert.Equal(t, 1, Resolve("-j0", fixedHost(-3)))
}

func TestResolve_NilHostUsesRuntime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, runtime.NumCPU(), Resolve("", nil))
}

func TestFromMakeOpts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, FromMakeOpts("-j4"))
	assert.Equal(t, runtime.NumCPU(), FromMakeOpts(""))
	assert.Equal(t, runtime.NumCPU(), FromMakeOpts("-j"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	n, ok := Parse("-j 10 --jobs=2")
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = Parse("--jobs")
	assert.False(t, ok)
}
