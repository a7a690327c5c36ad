package page

import (
	"fmt"
	"sync/atomic"

	"github.com/spiffcs/tunnelview/internal/log"
)

// confinement detects a host call that overlaps another one, which only
// happens when a second goroutine enters while the UI goroutine is inside.
type confinement struct {
	busy atomic.Bool
}

func (c *confinement) enter(op string) func() {
	if !c.busy.CompareAndSwap(false, true) {
		msg := fmt.Sprintf("page: %s called concurrently with another host call; all host calls must run on the UI goroutine", op)
		if debugAssertions {
			panic(msg)
		}
		log.Error(msg)
		return func() {}
	}
	return func() { c.busy.Store(false) }
}
