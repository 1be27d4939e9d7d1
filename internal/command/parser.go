package command

import (
	"strconv"
	"strings"

	"github.com/Valentinhdn/Pixel-Tracer/internal/shape"
)

// Parse tokenizes line on whitespace. The first token selects the command.
// For ADD, DELETE and SHAPE the second token may name a shape kind; a second
// token that is neither a kind nor an integer is kept in UnknownKind. Other
// commands skip the second token. Every remaining token must be an integer
// and becomes a param, in order.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}, ErrEmptyCommand
	}

	typ, ok := ParseType(tokens[0])
	if !ok {
		return Command{}, &UnknownCommandError{Word: tokens[0]}
	}

	cmd := Command{Type: typ}
	rest := tokens[1:]
	pos := 2

	switch {
	case len(rest) == 0:
	case !typ.TakesKind():
		// The second token is reserved for a shape kind; commands that take
		// none ignore it.
		rest = rest[1:]
		pos++
	default:
		if kind, ok := shape.ParseKind(rest[0]); ok {
			cmd.Kind = kind
			cmd.HasKind = true
			rest = rest[1:]
			pos++
		} else if _, err := strconv.Atoi(rest[0]); err != nil {
			cmd.UnknownKind = rest[0]
			rest = rest[1:]
			pos++
		}
	}

	cmd.Params = make([]int, 0, len(rest))
	for i, tok := range rest {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return Command{}, &ParamError{Token: tok, Position: pos + i}
		}
		cmd.Params = append(cmd.Params, n)
	}

	return cmd, nil
}
