package socketrpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/tudu/internal/model"
)

// DefaultCallTimeout bounds one round trip, including the store call on
// the server side.
const DefaultCallTimeout = 30 * time.Second

// ErrClientClosed is returned by calls made after Close.
var ErrClientClosed = errors.New("socketrpc: client closed")

// Client implements model.TodoStore over a Unix domain socket using JSON-RPC 2.0.
//
// A failed round trip drops the connection; the next call redials, so one
// slow or lost reply never poisons later calls.
type Client struct {
	socketPath string
	timeout    time.Duration

	mu      sync.Mutex
	nextID  int
	closed  bool
	conn    net.Conn
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	c := &Client{socketPath: socketPath, timeout: DefaultCallTimeout}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetTimeout changes the per-call deadline. Non-positive values restore
// DefaultCallTimeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultCallTimeout
	}
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

// Close closes the underlying connection. Later calls fail with
// ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.drop()
}

// connect must be called with mu held (or before the client is shared).
func (c *Client) connect() error {
	conn, err := net.DialTimeout("unix", c.socketPath, 5*time.Second)
	if err != nil {
		return fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	c.conn = conn
	c.scanner = scanner
	c.encoder = json.NewEncoder(conn)
	return nil
}

func (c *Client) drop() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.scanner = nil
	c.encoder = nil
	return err
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if c.conn == nil {
		if err := c.connect(); err != nil {
			return err
		}
	}

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(c.timeout))

	if err := c.encoder.Encode(req); err != nil {
		c.drop()
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		err := c.scanner.Err()
		c.drop()
		if err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		c.drop()
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}
	if resp.ID != id {
		// The stream is out of step; nothing after this can be trusted.
		c.drop()
		return fmt.Errorf("socketrpc: response id %d does not match request %d", resp.ID, id)
	}
	c.conn.SetDeadline(time.Time{})

	if resp.Error != nil {
		return errFromRPC(resp.Error)
	}

	if dest != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// errFromRPC maps wire error codes back to the model sentinels so callers
// can use errors.Is on either side of the socket.
func errFromRPC(e *RPCError) error {
	switch e.Code {
	case CodeNotFound:
		return fmt.Errorf("socketrpc: %w", model.ErrNotFound)
	case CodeEmptyTitle:
		return fmt.Errorf("socketrpc: %w", model.ErrEmptyTitle)
	default:
		return e
	}
}

func (c *Client) All() ([]model.Todo, error) {
	var result []model.Todo
	err := c.call("ListTodos", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) Find(term string) ([]model.Todo, error) {
	var result []model.Todo
	err := c.call("ListTodos", map[string]interface{}{"Term": term}, &result)
	return result, err
}

func (c *Client) Len() (int, error) {
	var result int
	err := c.call("CountTodos", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) Stats() (model.Stats, error) {
	var result model.Stats
	err := c.call("Stats", map[string]interface{}{}, &result)
	return result, err
}

func (c *Client) Add(title string, done bool, now time.Time) (string, error) {
	var result string
	err := c.call("AddTodo", map[string]interface{}{"Title": title, "Done": done, "Now": now}, &result)
	return result, err
}

func (c *Client) Toggle(id string) (model.Todo, error) {
	var result model.Todo
	err := c.call("ToggleTodo", map[string]interface{}{"ID": id}, &result)
	return result, err
}

func (c *Client) Remove(id string) error {
	return c.call("RemoveTodo", map[string]interface{}{"ID": id}, nil)
}
