//go:build !linux

package fsguard

// NewPlatformChecker returns a NoopChecker; read-only detection is only
// implemented for Linux.
func NewPlatformChecker() Checker {
	return NoopChecker{}
}
