//go:build !unix

package logwriter

import "os"

func lockFile(f *os.File) error {
	return nil
}

func unlockFile(f *os.File) {}
