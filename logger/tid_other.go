//go:build !linux

package logger

import "os"

// threadID falls back to the process id where there is no portable thread id.
func threadID() int {
	return os.Getpid()
}
