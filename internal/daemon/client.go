package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/Valentinhdn/Pixel-Tracer/pkg/protocol"
)

// RemoteError is a catalog failure reported by the server.
type RemoteError struct {
	Code    int64
	Message string
	Outcome string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

type Client struct {
	conn *jsonrpc2.Conn
}

func Dial(ctx context.Context, socketPath string) (*Client, error) {
	netConn, err := dialUnix(ctx, socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}

	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.PlainObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(
		func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "client accepts no calls"}
		},
	))

	return &Client{conn: conn}, nil
}

// Exec runs one command line on the server. On a catalog failure it returns
// the rendered output together with a *RemoteError.
func (c *Client) Exec(ctx context.Context, line string) (*protocol.ExecResult, error) {
	var result protocol.ExecResult
	err := c.conn.Call(ctx, protocol.MethodExec, protocol.ExecParams{Line: line}, &result)
	if err == nil {
		return &result, nil
	}

	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		return nil, err
	}

	remote := &RemoteError{Code: rpcErr.Code, Message: rpcErr.Message}
	out := &protocol.ExecResult{Output: "error: " + rpcErr.Message}
	if rpcErr.Data != nil {
		var data protocol.ExecErrorData
		if json.Unmarshal(*rpcErr.Data, &data) == nil {
			out.Output = data.Output
			remote.Outcome = data.Outcome
		}
	}
	return out, remote
}

func (c *Client) Health(ctx context.Context) (*protocol.HealthResult, error) {
	var result protocol.HealthResult
	if err := c.conn.Call(ctx, protocol.MethodHealth, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
