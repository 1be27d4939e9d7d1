// Package daemon serves one shared catalog to local clients over JSON-RPC 2.0
// on a unix socket.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/Valentinhdn/Pixel-Tracer/internal/dispatch"
	"github.com/Valentinhdn/Pixel-Tracer/internal/journal"
	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
	"github.com/Valentinhdn/Pixel-Tracer/internal/session"
	"github.com/Valentinhdn/Pixel-Tracer/pkg/protocol"
)

// Server serialises every command through one dispatcher, so registry
// mutations from different clients never interleave.
type Server struct {
	socketPath   string
	listener     net.Listener
	dispatcher   *dispatch.Dispatcher
	recorder     session.Recorder
	connections  map[*jsonrpc2.Conn]bool
	connMu       sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	acceptDone   chan struct{}
	wg           sync.WaitGroup
	startTime    time.Time
	log          *slog.Logger
}

// NewServer prepares a server; recorder may be nil.
func NewServer(socketPath string, d *dispatch.Dispatcher, recorder session.Recorder) *Server {
	return &Server{
		socketPath:  socketPath,
		dispatcher:  d,
		recorder:    recorder,
		connections: make(map[*jsonrpc2.Conn]bool),
		shutdown:    make(chan struct{}),
		startTime:   time.Now(),
		log:         logger.ForComponent("daemon"),
	}
}

func (s *Server) Start() error {
	listener, err := listenUnix(s.socketPath)
	if err != nil {
		return err
	}
	s.listener = listener
	s.acceptDone = make(chan struct{})

	s.log.Info("catalog server listening", "socket", s.socketPath, "capacity", s.dispatcher.Registry().Cap())

	go s.acceptConnections()

	return nil
}

func (s *Server) acceptConnections() {
	defer close(s.acceptDone)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				s.log.Warn("accept failed", "error", err)
				continue
			}
		}

		s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	client := &clientState{id: uuid.NewString()}
	stream := jsonrpc2.NewBufferedStream(conn, jsonrpc2.PlainObjectCodec{})
	rpcConn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(
		func(ctx context.Context, c *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			return s.handle(ctx, client, req)
		},
	))

	s.connMu.Lock()
	s.connections[rpcConn] = true
	s.connMu.Unlock()

	s.log.Debug("client connected", "client", client.id)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-rpcConn.DisconnectNotify()

		s.connMu.Lock()
		delete(s.connections, rpcConn)
		s.connMu.Unlock()

		s.log.Debug("client disconnected", "client", client.id)
	}()
}

type clientState struct {
	id  string
	seq atomic.Int64
}

func (s *Server) handle(ctx context.Context, client *clientState, req *jsonrpc2.Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic recovered", "method", req.Method, "panic", r, "stack", string(debug.Stack()))
			result, err = nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	switch req.Method {
	case protocol.MethodExec:
		return s.handleExec(ctx, client, req)
	case protocol.MethodHealth:
		return s.Health(), nil
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}
}

func (s *Server) handleExec(ctx context.Context, client *clientState, req *jsonrpc2.Request) (any, error) {
	var params protocol.ExecParams
	if req.Params == nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
	}

	res := s.dispatcher.Exec(params.Line)
	s.record(ctx, client, params.Line, res)

	if res.Err != nil {
		rpcErr := &jsonrpc2.Error{
			Code:    int64(dispatch.Code(res.Err)),
			Message: res.Err.Error(),
		}
		rpcErr.SetError(protocol.ExecErrorData{Output: res.Output, Outcome: dispatch.Outcome(res.Err)})
		return nil, rpcErr
	}

	return protocol.ExecResult{
		Command: res.Command.String(),
		Output:  res.Output,
		Quit:    res.Quit,
	}, nil
}

func (s *Server) record(ctx context.Context, client *clientState, line string, res dispatch.Result) {
	if s.recorder == nil {
		return
	}

	e := journal.Entry{
		SessionID: client.id,
		Seq:       int(client.seq.Add(1)),
		Line:      line,
		Command:   res.Command.String(),
		Outcome:   journal.OutcomeOK,
	}
	if res.Err != nil {
		e.Outcome = dispatch.Outcome(res.Err)
		e.Error = res.Err.Error()
	}

	if err := s.recorder.Record(ctx, e); err != nil {
		s.log.Warn("failed to journal command", "client", client.id, "error", err)
	}
}

func (s *Server) Health() protocol.HealthResult {
	reg := s.dispatcher.Registry()
	return protocol.HealthResult{
		Status:   "healthy",
		Shapes:   reg.Len(),
		Capacity: reg.Cap(),
		Uptime:   s.Uptime().Seconds(),
	}
}

// Shutdown stops accepting clients, closes every connection and removes the
// socket. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		if s.listener != nil {
			s.listener.Close()
			<-s.acceptDone
		}

		s.connMu.Lock()
		for conn := range s.connections {
			conn.Close()
		}
		s.connMu.Unlock()

		s.wg.Wait()
		if err := removeSocket(s.socketPath); err != nil {
			s.log.Warn("failed to remove socket", "socket", s.socketPath, "error", err)
		}

		s.log.Info("catalog server stopped", "uptime", s.Uptime().Round(time.Second))
	})
}

func (s *Server) SocketPath() string {
	return s.socketPath
}

func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}

func (s *Server) ClientCount() int {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return len(s.connections)
}
