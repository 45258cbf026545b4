// Package shutdown provides a context cancelled on SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context that is cancelled when the process receives an
// interrupt or termination signal. The returned func releases resources and
// restores the default signal behaviour.
func New() (context.Context, func()) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
