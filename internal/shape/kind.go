package shape

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindSquare
	KindRectangle
	KindCircle
	KindPolygon
)

// KindNone is reported by a shape whose payload has been destroyed.
const KindNone Kind = -1

// MinPolygonParams is the smallest well-formed polygon: two points.
const MinPolygonParams = 4

var kindNames = [...]string{
	KindPoint:     "POINT",
	KindLine:      "LINE",
	KindSquare:    "SQUARE",
	KindRectangle: "RECTANGLE",
	KindCircle:    "CIRCLE",
	KindPolygon:   "POLYGON",
}

var kindLayouts = [...][]string{
	KindPoint:     {"X", "Y"},
	KindLine:      {"X1", "Y1", "X2", "Y2"},
	KindSquare:    {"X", "Y", "LENGTH"},
	KindRectangle: {"X", "Y", "WIDTH", "HEIGHT"},
	KindCircle:    {"X", "Y", "RADIUS"},
	KindPolygon:   {"X1", "Y1", "X2", "Y2", "..."},
}

func (k Kind) String() string {
	if k == KindNone {
		return "NONE"
	}
	if !k.Valid() {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k >= KindPoint && k <= KindPolygon
}

// ParseKind matches s case-sensitively against the kind names.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		kinds = append(kinds, Kind(k))
	}
	return kinds
}

// ParamCount is the exact number of ADD params for fixed-size kinds. For
// KindPolygon it is the minimum; the count must also be even.
func (k Kind) ParamCount() int {
	switch k {
	case KindPoint:
		return 2
	case KindLine, KindRectangle:
		return 4
	case KindSquare, KindCircle:
		return 3
	case KindPolygon:
		return MinPolygonParams
	default:
		return 0
	}
}

// Layout names the params ADD expects, in order.
func (k Kind) Layout() []string {
	if !k.Valid() {
		return nil
	}
	out := make([]string, len(kindLayouts[k]))
	copy(out, kindLayouts[k])
	return out
}

// Usage describes the ADD contract for k, e.g. "CIRCLE [X] [Y] [RADIUS] : 3 params".
func (k Kind) Usage() string {
	var b strings.Builder
	b.WriteString(k.String())
	for _, name := range k.Layout() {
		if name == "..." {
			b.WriteString(" ...")
			continue
		}
		b.WriteString(" [")
		b.WriteString(name)
		b.WriteString("]")
	}
	b.WriteString(" : ")
	if k == KindPolygon {
		b.WriteString("even count, at least 4 params")
	} else {
		b.WriteString(strconv.Itoa(k.ParamCount()))
		b.WriteString(" params")
	}
	return b.String()
}
