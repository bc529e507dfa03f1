// Package goroutine launches background work that must not take the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/saasportal/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine and logs a panic with its stack
// instead of crashing. The returned channel is closed once fn has returned
// or panicked, so callers that care can wait for it during shutdown.
func SafeGo(log logger.Interface, name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
	return done
}
