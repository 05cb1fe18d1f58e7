package utils

import (
	"os"
	"sync"
)

var (
	host     string
	hostOnce sync.Once
)

// GetHost returns the cached hostname for log enrichment.
func GetHost() string {
	hostOnce.Do(func() {
		h, err := os.Hostname()
		if err != nil {
			host = "unknown"
			return
		}
		host = h
	})
	return host
}
