// Package jobs derives build parallelism from MAKEOPTS-style option strings.
package jobs

import (
	"regexp"
	"runtime"
	"strconv"
)

// jobFlagPattern matches -jN, -j N, --jobs=N and --jobs N. The flag must start
// a whitespace-delimited token so that e.g. "--no-jobs4" is ignored.
var jobFlagPattern = regexp.MustCompile(`(?:^|\s)(?:-j|--jobs(?:=|\s))\s*(\d+)`)

// HostParallelism returns the number of logical CPUs usable by this process.
func HostParallelism() int {
	return runtime.NumCPU()
}

// FromMakeOpts returns the job count requested by makeopts, falling back to
// the host's logical parallelism.
func FromMakeOpts(makeopts string) int {
	return Resolve(makeopts, HostParallelism)
}

// Resolve returns the job count requested by the first job flag in makeopts.
//
// When makeopts is empty, carries no job flag with digits, or requests zero
// jobs, the value of host is used instead. The result is never below 1.
func Resolve(makeopts string, host func() int) int {
	if n, ok := Parse(makeopts); ok {
		return n
	}
	return fallback(host)
}

// Parse extracts the first job count from makeopts. ok is false when no
// positive count is present.
func Parse(makeopts string) (n int, ok bool) {
	m := jobFlagPattern.FindStringSubmatch(makeopts)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func fallback(host func() int) int {
	if host == nil {
		host = HostParallelism
	}
	if n := host(); n > 0 {
		return n
	}
	return 1
}
