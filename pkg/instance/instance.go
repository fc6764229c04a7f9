package instance

import (
	"os"

	"github.com/angelmondragon/warehouse-console/pkg/env"
)

// GetID identifies this console replica in logs. WAREHOUSE_INSTANCE_ID wins,
// then the platform dyno name, then the hostname.
func GetID() string {
	if id := env.Get("WAREHOUSE_INSTANCE_ID", ""); id != "" {
		return id
	}
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "console-0"
}
