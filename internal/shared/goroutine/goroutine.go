// Package goroutine launches background work with panic recovery so one
// bad update can't take down the polling loop.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine, recovering and logging any panic
// instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
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
}
