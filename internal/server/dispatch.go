package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/relayworks/oneshot/internal/httpmsg"
	"github.com/relayworks/oneshot/internal/store"
	"go.uber.org/zap"
)

// ErrMethodMismatch is an internal contract violation: the dispatch
// switch selected a branch whose expected method does not match the
// request. It is fatal to the connection, never surfaced to the
// client.
var ErrMethodMismatch = errors.New("server: dispatch branch does not match request method")

// Dispatcher turns one decoded request into one response. A non-nil
// error is a connection-level failure: the handler closes the client
// connection without synthesizing a response.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *httpmsg.Request) (*httpmsg.Response, error)
}

// StoreDispatcher answers requests from the content store.
type StoreDispatcher struct {
	store store.Store
	log   *zap.Logger
}

var _ Dispatcher = (*StoreDispatcher)(nil)

func NewStoreDispatcher(s store.Store, log *zap.Logger) *StoreDispatcher {
	return &StoreDispatcher{
		store: s,
		log:   log.Named("dispatch"),
	}
}

func (d *StoreDispatcher) Dispatch(ctx context.Context, req *httpmsg.Request) (*httpmsg.Response, error) {
	switch req.Method {
	case httpmsg.MethodGet:
		return d.handleGet(req)
	case httpmsg.MethodHead:
		return d.handleHead(req)
	case httpmsg.MethodPut:
		return d.handlePut(req)
	case httpmsg.MethodPost:
		return d.handlePost(req)
	case httpmsg.MethodDelete:
		return d.handleDelete(req)
	default:
		d.log.Info("unsupported method", zap.String("method", string(req.Method)))
		return httpmsg.CannedMethodNotAllowed, nil
	}
}

func (d *StoreDispatcher) handleGet(req *httpmsg.Request) (*httpmsg.Response, error) {
	if err := expectMethod(req, httpmsg.MethodGet); err != nil {
		return nil, err
	}

	d.log.Debug("handling GET", zap.String("url", req.URL))

	data, found, err := d.store.Retrieve(req.URL)
	if err != nil {
		return nil, fmt.Errorf("retrieving %s: %w", req.URL, err)
	}
	if !found {
		return httpmsg.CannedNotFound, nil
	}

	return &httpmsg.Response{
		Version: httpmsg.VersionHTTP11,
		Status:  httpmsg.StatusOK,
		Header: httpmsg.Header{
			{Key: "Content-Length", Value: strconv.Itoa(len(data))},
		},
		Data: string(data),
	}, nil
}

// handleHead does an existence check only; neither outcome carries a
// body.
func (d *StoreDispatcher) handleHead(req *httpmsg.Request) (*httpmsg.Response, error) {
	if err := expectMethod(req, httpmsg.MethodHead); err != nil {
		return nil, err
	}

	d.log.Debug("handling HEAD", zap.String("url", req.URL))

	exists, err := d.store.Exists(req.URL)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", req.URL, err)
	}

	status := httpmsg.StatusNotFound
	if exists {
		status = httpmsg.StatusOK
	}

	return &httpmsg.Response{
		Version: httpmsg.VersionHTTP11,
		Status:  status,
	}, nil
}

// handlePut replaces existing content. PUT never creates.
func (d *StoreDispatcher) handlePut(req *httpmsg.Request) (*httpmsg.Response, error) {
	if err := expectMethod(req, httpmsg.MethodPut); err != nil {
		return nil, err
	}

	d.log.Debug("handling PUT", zap.String("url", req.URL))

	replaced, err := d.store.Replace(req.URL, []byte(req.Body))
	if err != nil {
		return nil, fmt.Errorf("replacing %s: %w", req.URL, err)
	}
	if !replaced {
		return httpmsg.CannedNotFound, nil
	}

	return httpmsg.CannedOK, nil
}

// handlePost creates new content; an existing path is a bad request.
func (d *StoreDispatcher) handlePost(req *httpmsg.Request) (*httpmsg.Response, error) {
	if err := expectMethod(req, httpmsg.MethodPost); err != nil {
		return nil, err
	}

	d.log.Debug("handling POST", zap.String("url", req.URL))

	created, err := d.store.Create(req.URL, []byte(req.Body))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", req.URL, err)
	}
	if !created {
		return httpmsg.CannedBadRequest, nil
	}

	return httpmsg.CannedOK, nil
}

func (d *StoreDispatcher) handleDelete(req *httpmsg.Request) (*httpmsg.Response, error) {
	if err := expectMethod(req, httpmsg.MethodDelete); err != nil {
		return nil, err
	}

	d.log.Debug("handling DELETE", zap.String("url", req.URL))

	deleted, err := d.store.Delete(req.URL)
	if err != nil {
		return nil, fmt.Errorf("deleting %s: %w", req.URL, err)
	}
	if !deleted {
		return httpmsg.CannedNotFound, nil
	}

	return httpmsg.CannedOK, nil
}

// expectMethod guards each branch against disagreeing with the
// dispatch switch.
func expectMethod(req *httpmsg.Request, want httpmsg.Method) error {
	if req.Method != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrMethodMismatch, want, req.Method)
	}
	return nil
}
