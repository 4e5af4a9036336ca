package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes model.TodoStore over a Unix domain socket.
// Each method maps 1:1 to the TodoStore interface.
//
//   Method       Params                                   Result
//   ──────────   ──────────────────────────────────────   ────────────
//   ListTodos    {Term: string}                           []Todo
//   AddTodo      {Title: string, Done: bool, Now: time}   string (id)
//   ToggleTodo   {ID: string}                             Todo
//   RemoveTodo   {ID: string}                             null
//   CountTodos   (none)                                   int
//   Stats        (none)                                   Stats
//
// An empty Term lists every todo. ListTodos, CountTodos and Stats accept
// empty or null params.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (store or marshal failure)
//   -32004  Todo not found
//   -32005  Empty title

const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeNotFound       = -32004
	CodeEmptyTitle     = -32005
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/tudu/tudu.sock, falling back to
// ~/.local/state/tudu/tudu.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "tudu", "tudu.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/tudu.sock"
	}
	return filepath.Join(home, ".local", "state", "tudu", "tudu.sock")
}
