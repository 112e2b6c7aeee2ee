package httpmsg_test

import (
	"strconv"
	"testing"

	"github.com/relayworks/oneshot/internal/httpmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedResponses(t *testing.T) {
	tests := []struct {
		name   string
		resp   *httpmsg.Response
		status httpmsg.StatusCode
		body   string
	}{
		{"timeout", httpmsg.CannedTimeout, httpmsg.StatusRequestTimedOut, "REQUEST TIMED OUT."},
		{"not found", httpmsg.CannedNotFound, httpmsg.StatusNotFound, "NOT FOUND."},
		{"bad request", httpmsg.CannedBadRequest, httpmsg.StatusBadRequest, "BAD REQUEST."},
		{"ok", httpmsg.CannedOK, httpmsg.StatusOK, "SUCCESS."},
		{"method not allowed", httpmsg.CannedMethodNotAllowed, httpmsg.StatusMethodNotAllowed, "METHOD NOT ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, httpmsg.VersionHTTP11, tt.resp.Version)
			assert.Equal(t, tt.status, tt.resp.Status)
			assert.Equal(t, tt.body, tt.resp.Data)

			cl, ok := tt.resp.Header.Get("Content-Length")
			require.True(t, ok)
			assert.Equal(t, strconv.Itoa(len(tt.body)), cl)
		})
	}
}

func TestCannedTimeout_WireForm(t *testing.T) {
	raw := httpmsg.CannedTimeout.Encode()
	assert.Equal(t, "HTTP/1.1 408 Request Timed Out\r\nContent-Length: 18\r\n\r\nREQUEST TIMED OUT.", raw)
}
