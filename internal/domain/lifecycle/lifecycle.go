// Package lifecycle holds limits shared by start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every start/stop hook (DB ping, server shutdown, client close).
const DefaultTimeout = 10 * time.Second
