package instance

import (
	"fmt"
	"os"
	"strings"
)

// EnvKey overrides the derived instance name.
const EnvKey = "STOREFRONT_INSTANCE_ID"

// ID names this process in logs and outbox event attributes. Without an
// override it is "<host>-<pid>" so two publishers on one host stay distinct.
func ID() string {
	if id := strings.TrimSpace(os.Getenv(EnvKey)); id != "" {
		return id
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
