package instance

import (
	"os"
	"strings"
)

// GetID names the running process for logs and job lock ownership. It prefers
// MANDLIMART_INSTANCE_ID, then the platform DYNO, then the host name.
func GetID() string {
	for _, key := range []string{"MANDLIMART_INSTANCE_ID", "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
