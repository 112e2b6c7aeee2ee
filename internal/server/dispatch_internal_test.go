package server

import (
	"testing"

	"github.com/relayworks/oneshot/internal/httpmsg"
	"github.com/relayworks/oneshot/internal/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// the branch guard must catch the dispatch switch and a branch body
// ever disagreeing
func TestStoreDispatcher_MethodMismatchIsFatal(t *testing.T) {
	d := NewStoreDispatcher(store.NewMemoryStore(), zap.NewNop())

	req := &httpmsg.Request{
		Method:  httpmsg.MethodPost,
		URL:     "/a.txt",
		Version: httpmsg.VersionHTTP11,
	}

	_, err := d.handleGet(req)
	assert.ErrorIs(t, err, ErrMethodMismatch)

	_, err = d.handlePut(req)
	assert.ErrorIs(t, err, ErrMethodMismatch)

	_, err = d.handleHead(req)
	assert.ErrorIs(t, err, ErrMethodMismatch)

	_, err = d.handleDelete(req)
	assert.ErrorIs(t, err, ErrMethodMismatch)

	_, err = d.handlePost(req)
	assert.NoError(t, err)
}
