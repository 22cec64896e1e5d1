package glyphrun

import "strings"

// Capability is an optional engine feature. Callers query capabilities
// before calling the operations that depend on them.
type Capability uint32

const (
	// CapTypographicBounds gates Run.TypographicBounds.
	CapTypographicBounds Capability = 1 << iota
	// CapBoundingRects gates Font.BoundingRects.
	CapBoundingRects
	// CapDrawGlyphs gates Font.Draw and Font.DrawGlyphs.
	CapDrawGlyphs
	// CapFallbackList gates Font.DefaultCascadeList.
	CapFallbackList
	// CapNativeFont gates Font.GraphicsFont.
	CapNativeFont
	// CapSupportedLanguages gates Font.SupportedLanguages.
	CapSupportedLanguages
	// CapRelease gates Run.Release.
	CapRelease
)

// CapabilitySet is a set of capabilities.
type CapabilitySet uint32

// BaseCapabilities is what every engine is assumed to support when it
// does not report capabilities itself.
const BaseCapabilities = CapabilitySet(CapTypographicBounds | CapBoundingRects | CapDrawGlyphs)

// AllCapabilities contains every capability.
const AllCapabilities = CapabilitySet(CapTypographicBounds | CapBoundingRects | CapDrawGlyphs |
	CapFallbackList | CapNativeFont | CapSupportedLanguages | CapRelease)

// Has reports whether c is in s.
func (s CapabilitySet) Has(c Capability) bool { return s&CapabilitySet(c) != 0 }

// With returns s plus c.
func (s CapabilitySet) With(c Capability) CapabilitySet { return s | CapabilitySet(c) }

// Without returns s minus c.
func (s CapabilitySet) Without(c Capability) CapabilitySet { return s &^ CapabilitySet(c) }

var capabilityNames = [...]struct {
	c    Capability
	name string
}{
	{CapTypographicBounds, "typographic-bounds"},
	{CapBoundingRects, "bounding-rects"},
	{CapDrawGlyphs, "draw-glyphs"},
	{CapFallbackList, "fallback-list"},
	{CapNativeFont, "native-font"},
	{CapSupportedLanguages, "supported-languages"},
	{CapRelease, "release"},
}

// String lists the capability names joined by '|'.
func (s CapabilitySet) String() string {
	var names []string
	for _, cn := range capabilityNames {
		if s.Has(cn.c) {
			names = append(names, cn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// CapabilityReporter is implemented by engines that advertise their
// capabilities.
type CapabilityReporter interface {
	Capabilities() CapabilitySet
}

// Capabilities returns the capabilities of engine e. Engines that do not
// implement CapabilityReporter get BaseCapabilities, plus CapRelease when
// they implement RunReleaser.
func Capabilities(e any) CapabilitySet {
	if e == nil {
		return 0
	}
	if r, ok := e.(CapabilityReporter); ok {
		return r.Capabilities()
	}
	s := BaseCapabilities
	if _, ok := e.(RunReleaser); ok {
		s = s.With(CapRelease)
	}
	return s
}

// Supports reports whether engine e has capability c.
func Supports(e any, c Capability) bool {
	return Capabilities(e).Has(c)
}
