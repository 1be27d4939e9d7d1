package dispatch

import (
	"errors"
	"fmt"

	"github.com/Valentinhdn/Pixel-Tracer/internal/command"
	"github.com/Valentinhdn/Pixel-Tracer/internal/ident"
	"github.com/Valentinhdn/Pixel-Tracer/internal/registry"
	"github.com/Valentinhdn/Pixel-Tracer/internal/shape"
)

var (
	ErrMissingKind      = errors.New("missing shape kind")
	ErrUnknownShapeKind = errors.New("unknown shape kind")
	ErrUsage            = errors.New("bad usage")
)

// JSON-RPC error codes for catalog failures. Domain errors live in the
// implementation-defined server range.
const (
	CodeUnknownCommand   = -32001
	CodeUnknownShapeKind = -32002
	CodeInvalidParam     = -32003
	CodeParamCount       = -32004
	CodeCapacityExceeded = -32005
	CodeNotFound         = -32006
	CodeUsage            = -32007
	CodeEmptyCommand     = -32008
	CodeInternal         = -32603
)

// Code classifies err for transports that report numeric error codes.
func Code(err error) int {
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		return CodeUnknownCommand
	case errors.Is(err, ErrUnknownShapeKind), errors.Is(err, ErrMissingKind):
		return CodeUnknownShapeKind
	case errors.Is(err, command.ErrInvalidParam):
		return CodeInvalidParam
	case errors.Is(err, shape.ErrParamCount):
		return CodeParamCount
	case errors.Is(err, registry.ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, registry.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUsage):
		return CodeUsage
	case errors.Is(err, command.ErrEmptyCommand):
		return CodeEmptyCommand
	default:
		return CodeInternal
	}
}

// Outcome names the class of err for logs and the journal.
func Outcome(err error) string {
	switch Code(err) {
	case CodeUnknownCommand:
		return "unknown_command"
	case CodeUnknownShapeKind:
		return "unknown_shape_kind"
	case CodeInvalidParam:
		return "invalid_param"
	case CodeParamCount:
		return "param_count_mismatch"
	case CodeCapacityExceeded:
		return "capacity_exceeded"
	case CodeNotFound:
		return "not_found"
	case CodeUsage:
		return "usage"
	case CodeEmptyCommand:
		return "empty"
	}
	if errors.Is(err, ident.ErrExhausted) {
		return "ids_exhausted"
	}
	return "internal"
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
