// Package httpmsg holds the typed HTTP/1.1 message model and its raw
// wire codec. It performs no I/O; connection handling lives in
// internal/server.
package httpmsg

// Method is an HTTP request method. Tokens outside the supported set
// decode to MethodUnsupported instead of failing.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPut    Method = "PUT"
	MethodHead   Method = "HEAD"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"

	MethodUnsupported Method = "UNSUPPORTED"
)

// ParseMethod maps a wire token to a Method. Unknown tokens map to
// MethodUnsupported rather than returning an error.
func ParseMethod(s string) Method {
	switch m := Method(s); m {
	case MethodGet, MethodPut, MethodHead, MethodPost, MethodDelete:
		return m
	default:
		return MethodUnsupported
	}
}

// Version is an HTTP protocol version. Only HTTP/1.1 is supported.
type Version string

const (
	VersionHTTP11 Version = "HTTP/1.1"

	VersionUnsupported Version = "UNSUPPORTED"
)

// ParseVersion maps a wire token to a Version, degrading unknown
// tokens to VersionUnsupported.
func ParseVersion(s string) Version {
	if Version(s) == VersionHTTP11 {
		return VersionHTTP11
	}
	return VersionUnsupported
}

// Field is a single header key/value pair. Keys are kept exactly as
// received, case and all.
type Field struct {
	Key   string
	Value string
}

// Header is an ordered collection of header fields. Setting an
// existing key overwrites its value in place, preserving the key's
// original position; decoding therefore keeps header order stable and
// applies last-write-wins to duplicates.
type Header []Field

// Get returns the value for key and whether the key is present.
func (h Header) Get(key string) (string, bool) {
	for _, f := range h {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set overwrites the value for key if present, otherwise appends a new
// field.
func (h *Header) Set(key, value string) {
	for i, f := range *h {
		if f.Key == key {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Field{Key: key, Value: value})
}

// Request is one parsed HTTP request. Values are not mutated by the
// codec; a Request is owned by exactly one connection handler.
type Request struct {
	Method  Method
	URL     string
	Version Version
	Header  Header
	Body    string
}

// Response is one HTTP response. Data is the raw body text.
type Response struct {
	Version Version
	Status  StatusCode
	Header  Header
	Data    string
}
