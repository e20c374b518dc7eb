package streamutil

import (
	"fmt"
	"io"
)

// Close closes c and logs a warning if that fails. A nil c is a no-op.
//
// Close never returns or panics on a close failure, so it is safe in defer
// and cleanup paths where the failure must not mask the primary error. A
// panic inside c.Close, such as a typed nil pointer dereferencing its
// receiver, is logged the same way.
func Close(c io.Closer) {
	if c == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			warnClose(c, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := c.Close(); err != nil {
		warnClose(c, err)
	}
}

func warnClose(c io.Closer, err error) {
	currentLogger().Warn("close failed",
		"module", moduleTag,
		"resource", fmt.Sprintf("%T", c),
		"error", err)
}

// CloseAll closes each non-nil closer in order with the same guarantees as
// Close. A failure on one closer does not stop the others.
func CloseAll(cs ...io.Closer) {
	for _, c := range cs {
		Close(c)
	}
}
