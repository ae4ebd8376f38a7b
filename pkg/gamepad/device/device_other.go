//go:build !linux
// +build !linux

package device

// Open is not supported.
func Open(index int) (Device, error) {
	return nil, ErrNotSupported
}

// DetectAndOpen is not supported.
func DetectAndOpen(startIndex int) (Device, error) {
	return nil, ErrNotSupported
}
