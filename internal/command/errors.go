package command

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidParam   = errors.New("invalid param")
)

type UnknownCommandError struct {
	Word string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Word)
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// ParamError reports a token that is not an integer. Position counts tokens
// from 1, the command word being token 1.
type ParamError struct {
	Token    string
	Position int
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid param %q at position %d: not an integer", e.Token, e.Position)
}

func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParam
}
