//go:build !unix

package logging

import "os"

// Advisory locking is unavailable; writes within one process are still
// serialized by RotatingWriter.mu.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) {}
