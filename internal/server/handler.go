package server

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/relayworks/oneshot/internal/httpmsg"
	"go.uber.org/zap"
)

// maxRequestBytes is the single bounded read per connection. A
// request whose head and body exceed one read is a known limitation
// of this design, not something the handler papers over by looping.
const maxRequestBytes = 8 << 10

// Handler owns one accepted connection for exactly one
// request/response exchange. Every path through Handle closes the
// connection exactly once.
type Handler struct {
	dispatcher Dispatcher
	timeout    time.Duration
	log        *zap.Logger
}

func NewHandler(d Dispatcher, timeout time.Duration, log *zap.Logger) *Handler {
	return &Handler{
		dispatcher: d,
		timeout:    timeout,
		log:        log.Named("handler"),
	}
}

// exchange is the per-connection state, threaded through the state
// machine below.
type exchange struct {
	ctx        context.Context
	conn       net.Conn
	dispatcher Dispatcher
	timeout    time.Duration
	log        *zap.Logger

	req  *httpmsg.Request
	resp *httpmsg.Response
	err  error
}

// stateFn is one state of the connection; returning nil terminates
// the machine. The terminal transition is always closeConn.
type stateFn func(*exchange) stateFn

// Handle runs the connection state machine to completion:
// awaitRequest, dispatch, respond, closeConn.
func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	e := &exchange{
		ctx:        ctx,
		conn:       conn,
		dispatcher: h.dispatcher,
		timeout:    h.timeout,
		log:        h.log.With(zap.Stringer("remote", conn.RemoteAddr())),
	}

	for state := awaitRequest; state != nil; {
		state = state(e)
	}
}

// awaitRequest waits for request bytes for up to the configured
// timeout and decodes them. A timeout skips dispatching and responds
// with the canned 408; undecodable bytes get the same treatment as an
// unsupported method.
func awaitRequest(e *exchange) stateFn {
	if err := e.conn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
		e.err = err
		return closeConn
	}

	buf := make([]byte, maxRequestBytes)
	n, err := e.conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			e.log.Info("connection timed out awaiting request")
			e.resp = httpmsg.CannedTimeout
			return respond
		}
		e.err = err
		return closeConn
	}

	req, err := httpmsg.DecodeRequest(string(buf[:n]))
	if err != nil {
		e.log.Warn("undecodable request", zap.Error(err))
		e.resp = httpmsg.CannedMethodNotAllowed
		return respond
	}

	e.log.Debug("received request",
		zap.String("method", string(req.Method)),
		zap.String("url", req.URL),
	)

	e.req = req
	return dispatch
}

// dispatch hands the request to the configured dispatcher. A
// dispatcher error is a connection-level failure: no response is
// synthesized.
func dispatch(e *exchange) stateFn {
	resp, err := e.dispatcher.Dispatch(e.ctx, e.req)
	if err != nil {
		e.err = err
		return closeConn
	}

	e.resp = resp
	return respond
}

func respond(e *exchange) stateFn {
	if _, err := io.WriteString(e.conn, e.resp.Encode()); err != nil {
		e.err = err
		return closeConn
	}

	e.log.Debug("sent response", zap.Int("status", int(e.resp.Status)))
	return closeConn
}

// closeConn releases the connection. Failures never escape the
// connection: they are logged and the accept loop is untouched.
func closeConn(e *exchange) stateFn {
	if err := e.conn.Close(); err != nil && e.err == nil {
		e.err = err
	}

	if e.err != nil {
		e.log.Error("connection failed", zap.Error(e.err))
	}

	return nil
}
