// Package dispatch executes parsed commands against a shape registry.
package dispatch

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Valentinhdn/Pixel-Tracer/internal/command"
	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
	"github.com/Valentinhdn/Pixel-Tracer/internal/registry"
	"github.com/Valentinhdn/Pixel-Tracer/internal/shape"
)

//go:embed help.txt
var helpText string

// Result is what one command produced. Output is always the text to show
// the user, error messages included. Quit asks the caller to end the
// session; the dispatcher never ends the process itself.
type Result struct {
	Command command.Type
	Output  string
	Quit    bool
	Err     error
}

type Dispatcher struct {
	mu       sync.Mutex
	registry *registry.Registry
	ids      shape.IDSource
	help     string
	log      *slog.Logger
}

func New(reg *registry.Registry, ids shape.IDSource) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		ids:      ids,
		help:     strings.TrimRight(helpText, "\n"),
		log:      logger.ForComponent("dispatch"),
	}
}

func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Exec parses line and dispatches it as one indivisible step with respect
// to other Exec and Dispatch calls on d.
func (d *Dispatcher) Exec(line string) Result {
	cmd, err := command.Parse(line)
	if err != nil {
		return failure(-1, err)
	}
	return d.Dispatch(cmd)
}

func (d *Dispatcher) Dispatch(cmd command.Command) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	var res Result
	switch cmd.Type {
	case command.TypeAdd:
		res = d.add(cmd)
	case command.TypeDelete:
		res = d.remove(cmd)
	case command.TypeList:
		res = d.list()
	case command.TypeClear:
		res = d.clear()
	case command.TypeShape:
		res = d.describe(cmd)
	case command.TypeHelp:
		res = Result{Output: d.help}
	case command.TypeQuit:
		res = Result{Output: "bye", Quit: true}
	default:
		res = failure(cmd.Type, fmt.Errorf("unhandled command %s", cmd.Type))
	}
	res.Command = cmd.Type

	if res.Err != nil {
		d.log.Debug("command failed", "command", cmd.Type.String(), "outcome", Outcome(res.Err), "error", res.Err)
	}
	return res
}

func (d *Dispatcher) add(cmd command.Command) Result {
	if !cmd.HasKind {
		if cmd.UnknownKind != "" {
			return failure(cmd.Type, fmt.Errorf("%w %q", ErrUnknownShapeKind, cmd.UnknownKind))
		}
		return failure(cmd.Type, fmt.Errorf("%w: ADD needs one of %s", ErrMissingKind, kindList()))
	}

	// Checked before construction so a full registry does not burn an id.
	if d.registry.Full() {
		return failure(cmd.Type, fmt.Errorf("%w (capacity %d)", registry.ErrCapacityExceeded, d.registry.Cap()))
	}

	s, err := shape.Construct(cmd.Kind, cmd.Params, d.ids)
	if err != nil {
		return failure(cmd.Type, err)
	}

	if err := d.registry.Add(s); err != nil {
		d.log.Warn("allocated id discarded", "id", s.ID, "error", err)
		shape.Destroy(s)
		return failure(cmd.Type, err)
	}

	return Result{Output: fmt.Sprintf("shape %d created\n%s", s.ID, shape.Render(s))}
}

func (d *Dispatcher) remove(cmd command.Command) Result {
	switch {
	case len(cmd.Params) == 0:
		return failure(cmd.Type, usageErr("DELETE needs a shape id"))
	case len(cmd.Params) > 1:
		return failure(cmd.Type, usageErr("DELETE takes exactly one shape id, got %d params", len(cmd.Params)))
	}

	target := cmd.Params[0]
	if target < 0 {
		return failure(cmd.Type, fmt.Errorf("shape %d %w", target, registry.ErrNotFound))
	}

	removed, err := d.registry.Remove(uint64(target))
	if err != nil {
		return failure(cmd.Type, err)
	}
	return Result{Output: fmt.Sprintf("shape %d deleted", removed.ID)}
}

func (d *Dispatcher) list() Result {
	shapes := d.registry.All()
	if len(shapes) == 0 {
		return Result{Output: "list is empty"}
	}

	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = shape.Render(s)
	}
	return Result{Output: strings.Join(parts, "\n")}
}

func (d *Dispatcher) clear() Result {
	n := d.registry.Clear()
	switch n {
	case 0:
		return Result{Output: "list is already empty"}
	case 1:
		return Result{Output: "cleared 1 shape"}
	default:
		return Result{Output: fmt.Sprintf("cleared %d shapes", n)}
	}
}

func (d *Dispatcher) describe(cmd command.Command) Result {
	if cmd.HasKind {
		return Result{Output: cmd.Kind.Usage()}
	}

	kinds := shape.Kinds()
	lines := make([]string, len(kinds))
	for i, k := range kinds {
		lines[i] = k.Usage()
	}
	return Result{Output: strings.Join(lines, "\n")}
}

func failure(typ command.Type, err error) Result {
	return Result{Command: typ, Output: Message(err), Err: err}
}

// Message renders err for the user.
func Message(err error) string {
	return "error: " + err.Error()
}

func kindList() string {
	kinds := shape.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
