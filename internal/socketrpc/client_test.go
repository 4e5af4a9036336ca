package socketrpc_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tinytelemetry/tudu/internal/duckdb"
	"github.com/tinytelemetry/tudu/internal/model"
	"github.com/tinytelemetry/tudu/internal/socketrpc"
)

func startTestServer(t *testing.T) (string, *socketrpc.Server) {
	t.Helper()
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sockPath := filepath.Join(t.TempDir(), "test.sock")
	srv := socketrpc.NewServer(sockPath, store)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	return sockPath, srv
}

func TestRoundtrip(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	var store model.TodoStore = client
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	milk, err := store.Add("Buy milk", false, now)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add("Wash the car", true, now.Add(time.Minute)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	t.Run("All", func(t *testing.T) {
		todos, err := store.All()
		if err != nil {
			t.Fatal(err)
		}
		if len(todos) != 2 || todos[0].Title != "Wash the car" {
			t.Fatalf("unexpected todos: %+v", todos)
		}
		if !todos[1].Created.Equal(now) {
			t.Fatalf("created = %v, want %v", todos[1].Created, now)
		}
	})

	t.Run("Find", func(t *testing.T) {
		todos, err := store.Find("MILK")
		if err != nil {
			t.Fatal(err)
		}
		if len(todos) != 1 || todos[0].ID != milk {
			t.Fatalf("unexpected todos: %+v", todos)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		st, err := store.Stats()
		if err != nil {
			t.Fatal(err)
		}
		if st.Total != 2 || st.Done != 1 {
			t.Fatalf("unexpected stats: %+v", st)
		}
		n, err := store.Len()
		if err != nil || n != 2 {
			t.Fatalf("Len = %d, %v; want 2", n, err)
		}
	})

	t.Run("Toggle", func(t *testing.T) {
		todo, err := store.Toggle(milk)
		if err != nil {
			t.Fatal(err)
		}
		if !todo.Done || todo.Title != "Buy milk" {
			t.Fatalf("unexpected todo: %+v", todo)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := store.Remove(milk); err != nil {
			t.Fatal(err)
		}
		if err := store.Remove(milk); err != nil {
			t.Fatalf("second remove: %v", err)
		}
		n, _ := store.Len()
		if n != 1 {
			t.Fatalf("Len after remove = %d, want 1", n)
		}
	})
}

func TestSentinelErrorsCrossTheSocket(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if _, err := client.Toggle("ffff"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Toggle unknown = %v, want ErrNotFound", err)
	}
	if _, err := client.Add("  ", false, time.Now()); !errors.Is(err, model.ErrEmptyTitle) {
		t.Fatalf("Add blank = %v, want ErrEmptyTitle", err)
	}
}

func TestDialFailure(t *testing.T) {
	_, err := socketrpc.Dial(filepath.Join(t.TempDir(), "nonexistent.sock"))
	if err == nil {
		t.Fatal("expected error dialing nonexistent socket")
	}
}

func TestSecondServerRefused(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	other := socketrpc.NewServer(sockPath, nil)
	if err := other.Start(); err == nil {
		other.Stop()
		t.Fatal("expected second server on the same socket to fail")
	}
}

func TestServerStopCleansSocket(t *testing.T) {
	sockPath, srv := startTestServer(t)
	srv.Stop()

	if _, err := socketrpc.Dial(sockPath); err == nil {
		t.Fatal("expected dial to fail after server stop")
	}
}

func TestStopIdempotent(t *testing.T) {
	_, srv := startTestServer(t)

	srv.Stop()
	srv.Stop()
}

func TestStopClosesConns(t *testing.T) {
	sockPath, srv := startTestServer(t)
	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	// Make sure the connection is being served before stopping.
	if _, err := client.Len(); err != nil {
		t.Fatalf("Len: %v", err)
	}

	srv.Stop()

	done := make(chan error, 1)
	go func() {
		_, callErr := client.All()
		done <- callErr
	}()

	select {
	case callErr := <-done:
		if callErr == nil {
			t.Fatal("expected client call to fail after server stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client call hung after server stop")
	}
}

// scriptedServer answers CountTodos on a Unix socket. reply decides, per
// request (numbered from 1 across all connections), how long to wait and
// which id to echo back.
type scriptedServer struct {
	mu    sync.Mutex
	n     int
	conns int
	reply func(n int, req socketrpc.Request) (time.Duration, int)
}

func startScriptedServer(t *testing.T, reply func(n int, req socketrpc.Request) (time.Duration, int)) (string, *scriptedServer) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "scripted.sock")
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	s := &scriptedServer{reply: reply}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.conns++
			s.mu.Unlock()
			go s.serve(conn)
		}
	}()
	return sockPath, s
}

func (s *scriptedServer) serve(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	enc := json.NewEncoder(conn)
	for scanner.Scan() {
		var req socketrpc.Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			return
		}
		s.mu.Lock()
		s.n++
		n := s.n
		s.mu.Unlock()

		wait, id := s.reply(n, req)
		time.Sleep(wait)
		if err := enc.Encode(socketrpc.Response{JSONRPC: "2.0", ID: id, Result: json.RawMessage("3")}); err != nil {
			return
		}
	}
}

func (s *scriptedServer) connCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

func TestClient_RecoversAfterTimeout(t *testing.T) {
	sockPath, srv := startScriptedServer(t, func(n int, req socketrpc.Request) (time.Duration, int) {
		if n == 1 {
			return 300 * time.Millisecond, req.ID
		}
		return 0, req.ID
	})

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	client.SetTimeout(50 * time.Millisecond)

	if _, err := client.Len(); err == nil {
		t.Fatal("first Len: expected timeout")
	}

	n, err := client.Len()
	if err != nil {
		t.Fatalf("second Len: %v", err)
	}
	if n != 3 {
		t.Fatalf("second Len = %d, want 3", n)
	}
	if got := srv.connCount(); got != 2 {
		t.Fatalf("connections = %d, want 2 (redial after timeout)", got)
	}
}

func TestClient_RejectsMismatchedResponseID(t *testing.T) {
	sockPath, srv := startScriptedServer(t, func(n int, req socketrpc.Request) (time.Duration, int) {
		if n == 1 {
			return 0, req.ID + 100
		}
		return 0, req.ID
	})

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if n, err := client.Len(); err == nil {
		t.Fatalf("Len = %d, expected id mismatch error", n)
	}
	if n, err := client.Len(); err != nil || n != 3 {
		t.Fatalf("Len after mismatch = %d, %v; want 3", n, err)
	}
	if got := srv.connCount(); got != 2 {
		t.Fatalf("connections = %d, want 2", got)
	}
}

func TestClient_RedialsAfterServerRestart(t *testing.T) {
	sockPath, srv := startTestServer(t)

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if _, err := client.Add("Buy milk", false, time.Now()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	srv.Stop()
	if _, err := client.Len(); err == nil {
		t.Fatal("expected error while the server is down")
	}

	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	restarted := socketrpc.NewServer(sockPath, store)
	if err := restarted.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer restarted.Stop()

	if n, err := client.Len(); err != nil || n != 0 {
		t.Fatalf("Len after restart = %d, %v; want 0", n, err)
	}
}

func TestClient_CallAfterClose(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client.Close()

	if _, err := client.Len(); !errors.Is(err, socketrpc.ErrClientClosed) {
		t.Fatalf("Len after Close = %v, want ErrClientClosed", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
