//go:build darwin

package native

import "golang.org/x/sys/unix"

const hasSwVers = true

func kernelProductVersion() (string, error) {
	return unix.Sysctl("kern.osproductversion")
}
