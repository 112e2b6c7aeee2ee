package httpmsg

// StatusCode is an HTTP response status code. The set is closed: a
// response decoding to a code outside this table is a decode error,
// there is no unsupported sentinel on the response side.
type StatusCode int

const (
	StatusOK               StatusCode = 200
	StatusNotModified      StatusCode = 304
	StatusBadRequest       StatusCode = 300
	StatusNotFound         StatusCode = 404
	StatusMethodNotAllowed StatusCode = 405
	StatusRequestTimedOut  StatusCode = 408
)

// reasonPhrases is the closed, bijective status-code to reason-phrase
// table. Every known code has exactly one phrase.
var reasonPhrases = map[StatusCode]string{
	StatusOK:               "OK",
	StatusNotModified:      "Not Modified",
	StatusBadRequest:       "Bad Request",
	StatusNotFound:         "Not Found",
	StatusMethodNotAllowed: "Method Not Allowed",
	StatusRequestTimedOut:  "Request Timed Out",
}

// Reason returns the reason phrase for the code. Calling Reason on an
// unknown code returns the empty string; decode rejects those first.
func (c StatusCode) Reason() string {
	return reasonPhrases[c]
}

// Known reports whether c is one of the modeled status codes.
func (c StatusCode) Known() bool {
	_, ok := reasonPhrases[c]
	return ok
}
