//go:build !darwin

package native

const hasSwVers = false

func kernelProductVersion() (string, error) {
	return "", ErrVersionUnavailable
}
