package viewmodel

import (
	"strings"
)

// Capability is a set of the ways a view model's value can be reached.
type Capability uint16

const (
	// UpdateReactivelyInside: the model feeds its own value from a stream.
	UpdateReactivelyInside Capability = 1 << iota
	// ReadReactivelyInside: the model subscribes to its own value.
	ReadReactivelyInside
	// UpdateProcedurallyInside: the model sets its value with a plain call.
	UpdateProcedurallyInside
	// ReadProcedurallyInside: the model reads its value with a plain call.
	ReadProcedurallyInside
	// UpdateReactivelyOutside: callers can bind a stream into the model.
	UpdateReactivelyOutside
	// ReadReactivelyOutside: callers can subscribe to the model's value.
	ReadReactivelyOutside
	// UpdateProcedurallyOutside: callers can set the value with a plain call.
	UpdateProcedurallyOutside
	// ReadProcedurallyOutside: callers can read the value with a plain call.
	ReadProcedurallyOutside
	// HoldsValue: the model retains its latest value.
	HoldsValue
)

// AllCapabilities is the union of every capability.
const AllCapabilities = UpdateReactivelyInside | ReadReactivelyInside |
	UpdateProcedurallyInside | ReadProcedurallyInside |
	UpdateReactivelyOutside | ReadReactivelyOutside |
	UpdateProcedurallyOutside | ReadProcedurallyOutside |
	HoldsValue

var capabilityLabels = []struct {
	c     Capability
	label string
}{
	{UpdateReactivelyInside, "update reactively from inside"},
	{ReadReactivelyInside, "read reactively from inside"},
	{UpdateProcedurallyInside, "update procedurally from inside"},
	{ReadProcedurallyInside, "read procedurally from inside"},
	{UpdateReactivelyOutside, "update reactively from outside"},
	{ReadReactivelyOutside, "read reactively from outside"},
	{UpdateProcedurallyOutside, "update procedurally from outside"},
	{ReadProcedurallyOutside, "read procedurally from outside"},
	{HoldsValue, "holds a value"},
}

// Each returns the single capabilities in display order.
func Each() []Capability {
	out := make([]Capability, len(capabilityLabels))
	for i, l := range capabilityLabels {
		out[i] = l.c
	}
	return out
}

// Has reports whether every capability in other is present in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// Label returns the description of a single capability.
func (c Capability) Label() string {
	for _, l := range capabilityLabels {
		if l.c == c {
			return l.label
		}
	}
	return ""
}

// String lists the labels of every capability in c.
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, l := range capabilityLabels {
		if c.Has(l.c) {
			parts = append(parts, l.label)
		}
	}
	return strings.Join(parts, ", ")
}

// Pattern describes one view-model shape for the capability matrix.
type Pattern struct {
	Name         string
	Summary      string
	Capabilities Capability
}

// Patterns returns the catalog of value-holding view-model shapes.
func Patterns() []Pattern {
	return []Pattern{
		{"open-relay", "exported BehaviorRelay; least code, least safety", openRelayCaps},
		{"open-publish-relay", "exported PublishRelay; holds nothing", openPublishRelayCaps},
		{"observer-output", "Observer in, Observable out", observerOutputCaps},
		{"output-only", "Observable out only; nothing can push from outside", outputOnlyCaps},
		{"output-with-update", "Observable out plus an Update method", outputWithUpdateCaps},
		{"derived", "transforms an injected input stream", derivedCaps},
		{"plain-state", "plain field, no streams", plainStateCaps},
		{"guarded", "private relay behind Observer, Observable and accessors", guardedCaps},
		{"tap-counter", "held counter observed by the presentation layer", tapCounterCaps},
	}
}
