package scene

type LineID int

const (
	LineBody LineID = iota
	LineRotorLeft
	LineRotorRight
	LineConnectorLeft
	LineConnectorRight
	LineWire
)

// Lines lists every line primitive in drawing order.
var Lines = []LineID{LineBody, LineRotorLeft, LineRotorRight, LineConnectorLeft, LineConnectorRight, LineWire}

func (id LineID) String() string {
	switch id {
	case LineBody:
		return "body"
	case LineRotorLeft:
		return "rotor_left"
	case LineRotorRight:
		return "rotor_right"
	case LineConnectorLeft:
		return "connector_left"
	case LineConnectorRight:
		return "connector_right"
	case LineWire:
		return "wire"
	}
	return "unknown"
}

type PolygonID int

const (
	PolygonOuter PolygonID = iota
	PolygonInner
)

func (id PolygonID) String() string {
	switch id {
	case PolygonOuter:
		return "payload"
	case PolygonInner:
		return "payload_fill"
	}
	return "unknown"
}

type GlyphID int

const (
	GlyphAccel GlyphID = iota
	GlyphPayload
)

func (id GlyphID) String() string {
	switch id {
	case GlyphAccel:
		return "accel"
	case GlyphPayload:
		return "payload"
	}
	return "unknown"
}

// GlyphHandle identifies a glyph added to a surface. The zero handle
// refers to no glyph.
type GlyphHandle uint64

// Surface is the drawing collaborator a scene is pushed to.
type Surface interface {
	SetLine(id LineID, s Segment)
	ClearLine(id LineID)
	SetPolygon(id PolygonID, pts []Point)
	AddGlyph(id GlyphID, g Glyph) GlyphHandle
	RemoveGlyph(h GlyphHandle)
}

// Overlay carries the glyph handles of the previous frame.
type Overlay struct {
	Accel   GlyphHandle
	Payload GlyphHandle
}

func (s Scene) line(id LineID) Segment {
	switch id {
	case LineBody:
		return s.Body
	case LineRotorLeft:
		return s.Rotors[0]
	case LineRotorRight:
		return s.Rotors[1]
	case LineConnectorLeft:
		return s.Connectors[0]
	case LineConnectorRight:
		return s.Connectors[1]
	default:
		return s.Wire
	}
}

// Apply mutates surf to show sc. The glyphs referenced by prev are
// removed before the new ones are added, so at most one glyph of each
// kind ever exists on the surface. The returned overlay must be passed
// to the next call.
func Apply(surf Surface, sc Scene, prev Overlay) Overlay {
	if prev.Accel != 0 {
		surf.RemoveGlyph(prev.Accel)
	}
	if prev.Payload != 0 {
		surf.RemoveGlyph(prev.Payload)
	}

	for _, id := range Lines {
		if sc.Empty {
			surf.ClearLine(id)
			continue
		}
		surf.SetLine(id, sc.line(id))
	}

	surf.SetPolygon(PolygonOuter, sc.Outer[:])
	if sc.HasInner {
		surf.SetPolygon(PolygonInner, sc.Inner[:])
	}

	var next Overlay
	if sc.HasGlyphs {
		next.Accel = surf.AddGlyph(GlyphAccel, sc.AccelGlyph)
		next.Payload = surf.AddGlyph(GlyphPayload, sc.PayloadGlyph)
	}
	return next
}
