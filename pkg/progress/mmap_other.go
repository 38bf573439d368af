//go:build !unix

package progress

import "os"

func mapFile(f *os.File, size int, write bool) ([]byte, error) {
	return nil, ErrRegionUnavailable
}

func unmapFile(data []byte) error {
	return nil
}
