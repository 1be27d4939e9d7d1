package shape

import (
	"fmt"
	"strings"
)

// Render describes s on two lines: an id/type header and the geometry.
func Render(s *Shape) string {
	if s.Payload == nil {
		return fmt.Sprintf("Shape ID: %d, Type: DESTROYED", s.ID)
	}
	return fmt.Sprintf("Shape ID: %d, Type: %s\n%s", s.ID, s.Kind(), Describe(s.Payload))
}

// Describe renders only the geometry line of a payload.
func Describe(p Payload) string {
	switch v := p.(type) {
	case Dot:
		return fmt.Sprintf("POINT %s", v.At)
	case Line:
		return fmt.Sprintf("LINE %s, %s", v.From, v.To)
	case Square:
		return fmt.Sprintf("SQUARE %s, length %d", v.Corner, v.Length)
	case Rectangle:
		return fmt.Sprintf("RECTANGLE %s, width %d, height %d", v.Corner, v.Width, v.Height)
	case Circle:
		return fmt.Sprintf("CIRCLE %s, radius %d", v.Center, v.Radius)
	case Polygon:
		parts := make([]string, len(v.Vertices))
		for i, vertex := range v.Vertices {
			parts[i] = vertex.String()
		}
		return "POLYGON " + strings.Join(parts, " ")
	}
	panic(fmt.Sprintf("shape: unhandled payload %T", p))
}

func (p Point) String() string {
	return fmt.Sprintf("[%d, %d]", p.X, p.Y)
}
