package phase

import (
	"strconv"
)

// Lowest and highest supported EAPI tags.
const (
	MinEAPI = 0
	MaxEAPI = 8
)

// minEAPI lists phases introduced after EAPI 0.
var minEAPI = map[Name]int{
	Pretend:   4,
	Prepare:   2,
	Configure: 2,
}

// ParseEAPI returns the numeric level of a supported EAPI tag.
func ParseEAPI(tag string) (int, error) {
	n, err := strconv.Atoi(tag)
	if err != nil || n < MinEAPI || n > MaxEAPI || strconv.Itoa(n) != tag {
		return 0, NewUnsupportedEAPIError(tag)
	}
	return n, nil
}

// SupportedEAPIs lists every accepted EAPI tag in ascending order.
func SupportedEAPIs() []string {
	out := make([]string, 0, MaxEAPI-MinEAPI+1)
	for i := MinEAPI; i <= MaxEAPI; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// ValidFor reports whether phase n exists at the given EAPI level.
func ValidFor(n Name, level int) bool {
	return level >= minEAPI[n]
}

// AtLeast reports whether tag is a supported EAPI at or above level.
func AtLeast(tag string, level int) bool {
	n, err := ParseEAPI(tag)
	return err == nil && n >= level
}
