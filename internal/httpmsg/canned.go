package httpmsg

import "strconv"

// Canned responses for fixed outcomes, shared by every connection.
// Each is built once at process start with a Content-Length computed
// from its fixed body; handlers must treat them as read-only.
var (
	CannedTimeout          = canned(StatusRequestTimedOut, "REQUEST TIMED OUT.")
	CannedNotFound         = canned(StatusNotFound, "NOT FOUND.")
	CannedBadRequest       = canned(StatusBadRequest, "BAD REQUEST.")
	CannedOK               = canned(StatusOK, "SUCCESS.")
	CannedMethodNotAllowed = canned(StatusMethodNotAllowed, "METHOD NOT ALLOWED")
)

func canned(status StatusCode, body string) *Response {
	return &Response{
		Version: VersionHTTP11,
		Status:  status,
		Header: Header{
			{Key: "Content-Length", Value: strconv.Itoa(len(body))},
		},
		Data: body,
	}
}
