package utils

import (
	"runtime/debug"
)

// RecoverFromPanic recovers from panics and logs them with a stack trace
func RecoverFromPanic(logger *Logger, context string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered in %s: %v\nStack trace:\n%s", context, r, string(debug.Stack()))
	}
}

// SafeGo runs fn in a goroutine with panic recovery
func SafeGo(logger *Logger, context string, fn func()) {
	go func() {
		defer RecoverFromPanic(logger, context)
		fn()
	}()
}
