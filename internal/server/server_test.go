package server_test

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/relayworks/oneshot/internal/httpmsg"
	"github.com/relayworks/oneshot/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// startServer runs a server on an ephemeral port and returns its
// address. The listener is closed on test cleanup.
func startServer(t *testing.T, config server.Config, d server.Dispatcher) (*server.Server, string) {
	t.Helper()

	config.Host = "127.0.0.1"

	s := server.NewServer(server.ServerParams{
		Context:    context.Background(),
		Config:     config,
		Dispatcher: d,
		Logger:     zap.NewNop(),
	})

	go s.Serve(context.Background())

	t.Cleanup(func() { s.Shutdown(context.Background()) })

	require.Eventually(t, func() bool {
		return s.Addr() != nil
	}, 2*time.Second, 10*time.Millisecond, "server never bound")

	return s, s.Addr().String()
}

// roundTrip opens one connection, sends raw, and returns everything
// received until the server closes the connection.
func roundTrip(t *testing.T, addr, raw string) string {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	if raw != "" {
		_, err = conn.Write([]byte(raw))
		require.NoError(t, err)
	}

	received, err := io.ReadAll(conn)
	require.NoError(t, err)

	return string(received)
}

func TestServer_ServesGetScenario(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "hi"})
	_, addr := startServer(t, server.Config{ReadTimeout: time.Second}, d)

	got := roundTrip(t, addr, "GET /a.txt HTTP/1.1\r\nHost: x\r\n\r\n")

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", got)
}

func TestServer_OneRequestPerConnection(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "hi"})
	_, addr := startServer(t, server.Config{ReadTimeout: time.Second}, d)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /a.txt HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)

	received, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", string(received))

	// the server closed the connection after one exchange
	_, err = conn.Write([]byte("GET /a.txt HTTP/1.1\r\n\r\n"))
	if err == nil {
		buf := make([]byte, 1)
		_, err = conn.Read(buf)
	}
	assert.Error(t, err)
}

func TestServer_TimeoutResponse(t *testing.T) {
	d, _ := newStoreDispatcher(t, nil)
	_, addr := startServer(t, server.Config{ReadTimeout: 50 * time.Millisecond}, d)

	got := roundTrip(t, addr, "")

	assert.Equal(t, httpmsg.CannedTimeout.Encode(), got)
}

func TestServer_BadConnectionDoesNotStopAcceptLoop(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "hi"})
	_, addr := startServer(t, server.Config{ReadTimeout: time.Second}, d)

	// undecodable request line first
	got := roundTrip(t, addr, "two tokens\r\n\r\n")
	assert.Equal(t, httpmsg.CannedMethodNotAllowed.Encode(), got)

	// the loop still serves the next connection
	got = roundTrip(t, addr, "GET /a.txt HTTP/1.1\r\n\r\n")
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", got)
}

func TestServer_InlinePolicySerializesConnections(t *testing.T) {
	var active, maxActive atomic.Int32

	d := dispatcherFunc(func(context.Context, *httpmsg.Request) (*httpmsg.Response, error) {
		n := active.Add(1)
		defer active.Add(-1)

		for {
			prev := maxActive.Load()
			if n <= prev || maxActive.CompareAndSwap(prev, n) {
				break
			}
		}

		time.Sleep(20 * time.Millisecond)
		return httpmsg.CannedOK, nil
	})

	_, addr := startServer(t, server.Config{ReadTimeout: time.Second, Inline: true}, d)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return
			}
			defer conn.Close()

			_, _ = conn.Write([]byte("GET /x HTTP/1.1\r\n\r\n"))
			_, _ = io.ReadAll(conn)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load(), "inline policy must serve one connection at a time")
}

func TestServer_ConcurrentPolicyOverlapsConnections(t *testing.T) {
	const clients = 4

	gate := make(chan struct{})
	var started atomic.Int32

	d := dispatcherFunc(func(context.Context, *httpmsg.Request) (*httpmsg.Response, error) {
		started.Add(1)
		<-gate
		return httpmsg.CannedOK, nil
	})

	_, addr := startServer(t, server.Config{ReadTimeout: 5 * time.Second}, d)

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return
			}
			defer conn.Close()

			_, _ = conn.Write([]byte("GET /x HTTP/1.1\r\n\r\n"))
			_, _ = io.ReadAll(conn)
		}()
	}

	// all handlers reach dispatch while the gate is closed
	require.Eventually(t, func() bool {
		return started.Load() == clients
	}, 2*time.Second, 10*time.Millisecond)

	close(gate)
	wg.Wait()
}

func TestServer_BoundedConcurrencyAdmitsAtMostMax(t *testing.T) {
	gate := make(chan struct{})
	var started atomic.Int32

	d := dispatcherFunc(func(context.Context, *httpmsg.Request) (*httpmsg.Response, error) {
		started.Add(1)
		<-gate
		return httpmsg.CannedOK, nil
	})

	_, addr := startServer(t, server.Config{ReadTimeout: 5 * time.Second, MaxConns: 1}, d)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return
			}
			defer conn.Close()

			_, _ = conn.Write([]byte("GET /x HTTP/1.1\r\n\r\n"))
			_, _ = io.ReadAll(conn)
		}()
	}

	require.Eventually(t, func() bool {
		return started.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// with the single slot held, nobody else may start
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), started.Load())

	close(gate)
	wg.Wait()
}

func TestServer_ProxiesToUpstream(t *testing.T) {
	const upstreamReply = "HTTP/1.1 404 Not Found\r\nContent-Length: 10\r\n\r\nNOT FOUND."

	config := startUpstream(t, func(conn net.Conn) {
		defer conn.Close()

		buf := make([]byte, 4096)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		_, _ = conn.Write([]byte(upstreamReply))
	})

	d, err := server.NewForwardDispatcher(config, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	_, addr := startServer(t, server.Config{ReadTimeout: time.Second}, d)

	got := roundTrip(t, addr, "GET /missing.txt HTTP/1.1\r\n\r\n")
	assert.Equal(t, upstreamReply, got)
}

func TestServer_ShutdownStopsAccepting(t *testing.T) {
	d, _ := newStoreDispatcher(t, nil)
	s, addr := startServer(t, server.Config{ReadTimeout: time.Second}, d)

	require.NoError(t, s.Shutdown(context.Background()))

	_, err := net.Dial("tcp", addr)
	assert.Error(t, err)
}
