package fieldmapper

import (
	"time"
)

// TimeConstant is the name under which NewConstants registers the clock.
const TimeConstant = "Time"

// Constants holds the named values a ConstantRef may refer to.
// It replaces global constant lookup with an explicit, injectable table.
type Constants struct {
	values map[string]Navigable
}

// NewConstants returns a table with "Time" registered: its "current" and "now"
// fields return clock(). A nil clock means time.Now.
func NewConstants(clock func() time.Time) *Constants {
	if clock == nil {
		clock = time.Now
	}
	c := &Constants{values: make(map[string]Navigable)}
	c.Register(TimeConstant, Accessors{
		"current": func() any { return clock() },
		"now":     func() any { return clock() },
	})
	return c
}

// Register adds or replaces a named constant.
func (c *Constants) Register(name string, value Navigable) {
	c.values[name] = value
}

// Lookup returns the constant registered under name.
func (c *Constants) Lookup(name string) (Navigable, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[name]
	return v, ok
}
