// Package shape defines the six shape kinds of the catalog, how each one is
// built from raw integer params, rendered, and torn down.
package shape

import (
	"errors"
	"fmt"
)

var ErrParamCount = errors.New("param count mismatch")

// CountError reports params that do not fit the layout of a kind.
type CountError struct {
	Kind Kind
	Got  int
}

func (e *CountError) Error() string {
	if e.Kind == KindPolygon {
		return fmt.Sprintf("%s needs an even count of at least %d params, got %d", e.Kind, MinPolygonParams, e.Got)
	}
	return fmt.Sprintf("%s needs %d params, got %d", e.Kind, e.Kind.ParamCount(), e.Got)
}

func (e *CountError) Is(target error) bool {
	return target == ErrParamCount
}

type Point struct {
	X, Y int
}

// Payload is the kind-specific geometry of a shape. The set of
// implementations is closed to this package.
type Payload interface {
	Kind() Kind
	// Params returns the payload flattened back into ADD param order.
	Params() []int
	sealed()
}

type Dot struct {
	At Point
}

type Line struct {
	From, To Point
}

type Square struct {
	Corner Point
	Length int
}

type Rectangle struct {
	Corner        Point
	Width, Height int
}

type Circle struct {
	Center Point
	Radius int
}

type Polygon struct {
	Vertices []Point
}

func (Dot) Kind() Kind       { return KindPoint }
func (Line) Kind() Kind      { return KindLine }
func (Square) Kind() Kind    { return KindSquare }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Polygon) Kind() Kind   { return KindPolygon }

func (Dot) sealed()       {}
func (Line) sealed()      {}
func (Square) sealed()    {}
func (Rectangle) sealed() {}
func (Circle) sealed()    {}
func (Polygon) sealed()   {}

func (p Dot) Params() []int { return []int{p.At.X, p.At.Y} }

func (p Line) Params() []int { return []int{p.From.X, p.From.Y, p.To.X, p.To.Y} }

func (p Square) Params() []int { return []int{p.Corner.X, p.Corner.Y, p.Length} }

func (p Rectangle) Params() []int {
	return []int{p.Corner.X, p.Corner.Y, p.Width, p.Height}
}

func (p Circle) Params() []int { return []int{p.Center.X, p.Center.Y, p.Radius} }

func (p Polygon) Params() []int {
	out := make([]int, 0, 2*len(p.Vertices))
	for _, v := range p.Vertices {
		out = append(out, v.X, v.Y)
	}
	return out
}

// Shape is a live catalog entry. It is never mutated after construction.
type Shape struct {
	ID      uint64
	Payload Payload
}

// Kind returns the kind of the payload, or KindNone once the shape is destroyed.
func (s *Shape) Kind() Kind {
	if s.Payload == nil {
		return KindNone
	}
	return s.Payload.Kind()
}

// IDSource hands out shape identifiers.
type IDSource interface {
	Next() (uint64, error)
}

// Validate checks params against the layout of kind without building anything.
func Validate(kind Kind, params []int) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown shape kind %d", int(kind))
	}
	n := len(params)
	if kind == KindPolygon {
		if n < MinPolygonParams || n%2 != 0 {
			return &CountError{Kind: kind, Got: n}
		}
		return nil
	}
	if n != kind.ParamCount() {
		return &CountError{Kind: kind, Got: n}
	}
	return nil
}

// NewPayload validates params and builds the payload for kind. The params
// slice is copied; the payload shares no memory with the caller.
func NewPayload(kind Kind, params []int) (Payload, error) {
	if err := Validate(kind, params); err != nil {
		return nil, err
	}

	p := params
	switch kind {
	case KindPoint:
		return Dot{At: Point{p[0], p[1]}}, nil
	case KindLine:
		return Line{From: Point{p[0], p[1]}, To: Point{p[2], p[3]}}, nil
	case KindSquare:
		return Square{Corner: Point{p[0], p[1]}, Length: p[2]}, nil
	case KindRectangle:
		return Rectangle{Corner: Point{p[0], p[1]}, Width: p[2], Height: p[3]}, nil
	case KindCircle:
		return Circle{Center: Point{p[0], p[1]}, Radius: p[2]}, nil
	case KindPolygon:
		vertices := make([]Point, 0, len(p)/2)
		for i := 0; i < len(p); i += 2 {
			vertices = append(vertices, Point{p[i], p[i+1]})
		}
		return Polygon{Vertices: vertices}, nil
	}
	panic(fmt.Sprintf("shape: unhandled kind %s", kind))
}

// Construct validates params, builds the payload and only then draws an id
// from ids, so a rejected construction never consumes one.
func Construct(kind Kind, params []int, ids IDSource) (*Shape, error) {
	payload, err := NewPayload(kind, params)
	if err != nil {
		return nil, err
	}

	id, err := ids.Next()
	if err != nil {
		return nil, fmt.Errorf("allocate id: %w", err)
	}

	return &Shape{ID: id, Payload: payload}, nil
}

// Destroy releases the payload of s, including every polygon vertex.
// Destroying a shape twice is a no-op.
func Destroy(s *Shape) {
	if s == nil || s.Payload == nil {
		return
	}
	if pg, ok := s.Payload.(Polygon); ok {
		clear(pg.Vertices)
	}
	s.Payload = nil
}
