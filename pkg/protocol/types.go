// Package protocol defines the JSON-RPC 2.0 payloads of the catalog server.
package protocol

const (
	MethodExec   = "exec"
	MethodHealth = "health"
)

type ExecParams struct {
	Line string `json:"line"`
}

type ExecResult struct {
	Command string `json:"command"`
	Output  string `json:"output"`
	Quit    bool   `json:"quit"`
}

// ExecErrorData travels in the data member of an exec error response.
type ExecErrorData struct {
	Output  string `json:"output"`
	Outcome string `json:"outcome"`
}

type HealthResult struct {
	Status   string  `json:"status"`
	Shapes   int     `json:"shapes"`
	Capacity int     `json:"capacity"`
	Uptime   float64 `json:"uptime"`
}
