// Package command turns one line of user input into a structured Command.
package command

import "github.com/Valentinhdn/Pixel-Tracer/internal/shape"

type Type int

const (
	TypeAdd Type = iota
	TypeDelete
	TypeList
	TypeClear
	TypeQuit
	TypeHelp
	TypeShape
)

var typeNames = [...]string{
	TypeAdd:    "ADD",
	TypeDelete: "DELETE",
	TypeList:   "LIST",
	TypeClear:  "CLEAR",
	TypeQuit:   "QUIT",
	TypeHelp:   "HELP",
	TypeShape:  "SHAPE",
}

func (t Type) String() string {
	if t < TypeAdd || t > TypeShape {
		return "UNKNOWN"
	}
	return typeNames[t]
}

// ParseType matches s case-sensitively against the command words.
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name == s {
			return Type(t), true
		}
	}
	return 0, false
}

// TakesKind reports whether the second token of the command may name a
// shape kind.
func (t Type) TakesKind() bool {
	return t == TypeAdd || t == TypeDelete || t == TypeShape
}

type Command struct {
	Type Type
	// Kind is meaningful only when HasKind is set.
	Kind    shape.Kind
	HasKind bool
	// UnknownKind holds a second token that named no known kind.
	UnknownKind string
	Params      []int
}

func (c Command) ParamCount() int {
	return len(c.Params)
}
