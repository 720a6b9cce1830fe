package castarea

import (
	"os"
)

// TempDir makes a directory for short-lived files such as webcam snapshots.
// It is placed in memory under /dev/shm when available, else in the OS
// default temporary directory. The caller removes it.
func TempDir() (string, error) {
	// Only use /dev/shm when it is a directory, so running as root never
	// creates entries directly under /dev.
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		dir, err := os.MkdirTemp("/dev/shm", "castarea")
		if err == nil {
			return dir, nil
		}
	}
	return os.MkdirTemp("", "castarea")
}
