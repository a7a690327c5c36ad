package page

import "testing"

func TestConfinementReleasesOnExit(t *testing.T) {
	var c confinement

	exit := c.enter("Show")
	if !c.busy.Load() {
		t.Fatal("expected confinement to be held inside a call")
	}
	exit()
	if c.busy.Load() {
		t.Fatal("expected confinement to be released after the call")
	}

	// Sequential calls never trip the check.
	c.enter("Handle")()
	c.enter("Press")()
}

func TestConfinementDetectsOverlap(t *testing.T) {
	var c confinement
	exit := c.enter("Handle")
	defer exit()

	if debugAssertions {
		defer func() {
			if recover() == nil {
				t.Error("expected overlapping entry to panic in debug builds")
			}
		}()
	}

	inner := c.enter("Show")
	inner()
	if !c.busy.Load() {
		t.Error("overlapping exit must not release the outer call")
	}
}
