package server_test

import (
	"context"
	"testing"

	"github.com/relayworks/oneshot/internal/httpmsg"
	"github.com/relayworks/oneshot/internal/server"
	"github.com/relayworks/oneshot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStoreDispatcher(t *testing.T, files map[string]string) (*server.StoreDispatcher, store.Store) {
	t.Helper()

	s := store.NewMemoryStore()
	for path, content := range files {
		created, err := s.Create(path, []byte(content))
		require.NoError(t, err)
		require.True(t, created)
	}

	return server.NewStoreDispatcher(s, zap.NewNop()), s
}

func dispatch(t *testing.T, d server.Dispatcher, method httpmsg.Method, url, body string) *httpmsg.Response {
	t.Helper()

	resp, err := d.Dispatch(context.Background(), &httpmsg.Request{
		Method:  method,
		URL:     url,
		Version: httpmsg.VersionHTTP11,
		Body:    body,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	return resp
}

func TestStoreDispatcher_Get_Found(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "hi"})

	resp := dispatch(t, d, httpmsg.MethodGet, "/a.txt", "")

	assert.Equal(t, httpmsg.StatusOK, resp.Status)
	assert.Equal(t, "hi", resp.Data)

	cl, ok := resp.Header.Get("Content-Length")
	require.True(t, ok)
	assert.Equal(t, "2", cl)

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nhi", resp.Encode())
}

func TestStoreDispatcher_Get_Missing(t *testing.T) {
	d, _ := newStoreDispatcher(t, nil)

	resp := dispatch(t, d, httpmsg.MethodGet, "/missing.txt", "")

	assert.Same(t, httpmsg.CannedNotFound, resp)
}

func TestStoreDispatcher_Head(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "hi"})

	resp := dispatch(t, d, httpmsg.MethodHead, "/a.txt", "")
	assert.Equal(t, httpmsg.StatusOK, resp.Status)
	assert.Empty(t, resp.Data)
	assert.Nil(t, resp.Header)

	resp = dispatch(t, d, httpmsg.MethodHead, "/b.txt", "")
	assert.Equal(t, httpmsg.StatusNotFound, resp.Status)
	assert.Empty(t, resp.Data)
}

func TestStoreDispatcher_Put_NeverCreates(t *testing.T) {
	d, s := newStoreDispatcher(t, nil)

	resp := dispatch(t, d, httpmsg.MethodPut, "/a.txt", "content")
	assert.Same(t, httpmsg.CannedNotFound, resp)

	exists, err := s.Exists("/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreDispatcher_Put_Replaces(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "old"})

	resp := dispatch(t, d, httpmsg.MethodPut, "/a.txt", "new")
	assert.Same(t, httpmsg.CannedOK, resp)

	resp = dispatch(t, d, httpmsg.MethodGet, "/a.txt", "")
	assert.Equal(t, "new", resp.Data)
}

func TestStoreDispatcher_Post_CreatesOnce(t *testing.T) {
	d, _ := newStoreDispatcher(t, nil)

	resp := dispatch(t, d, httpmsg.MethodPost, "/a.txt", "posted")
	assert.Same(t, httpmsg.CannedOK, resp)

	resp = dispatch(t, d, httpmsg.MethodGet, "/a.txt", "")
	assert.Equal(t, "posted", resp.Data)

	resp = dispatch(t, d, httpmsg.MethodPost, "/a.txt", "again")
	assert.Same(t, httpmsg.CannedBadRequest, resp)
}

func TestStoreDispatcher_Delete(t *testing.T) {
	d, _ := newStoreDispatcher(t, map[string]string{"/a.txt": "hi"})

	resp := dispatch(t, d, httpmsg.MethodDelete, "/a.txt", "")
	assert.Same(t, httpmsg.CannedOK, resp)

	resp = dispatch(t, d, httpmsg.MethodGet, "/a.txt", "")
	assert.Same(t, httpmsg.CannedNotFound, resp)

	resp = dispatch(t, d, httpmsg.MethodDelete, "/a.txt", "")
	assert.Same(t, httpmsg.CannedNotFound, resp)
}

func TestStoreDispatcher_UnsupportedMethod(t *testing.T) {
	d, _ := newStoreDispatcher(t, nil)

	resp := dispatch(t, d, httpmsg.MethodUnsupported, "/a.txt", "")
	assert.Same(t, httpmsg.CannedMethodNotAllowed, resp)
}
