package httpmsg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedMessage indicates raw bytes that do not frame as an
	// HTTP/1.1 message: missing head/body separator, a start line that
	// is not exactly three tokens, or a header line without a
	// key/value separator.
	ErrMalformedMessage = errors.New("httpmsg: malformed message")

	// ErrUnknownStatus indicates a response status code outside the
	// modeled set.
	ErrUnknownStatus = errors.New("httpmsg: unknown status code")
)

const (
	crlf          = "\r\n"
	headSeparator = "\r\n\r\n"
	fieldSep      = ": "
)

// Encode renders the request in wire form:
//
//	{METHOD} {url} {VERSION}\r\n{headers}\r\n{body}
//
// Each header renders as "key: value\r\n"; with no headers the block
// is empty. Exactly one blank line separates head from body either
// way.
func (r *Request) Encode() string {
	var b strings.Builder
	b.WriteString(string(r.Method))
	b.WriteByte(' ')
	b.WriteString(r.URL)
	b.WriteByte(' ')
	b.WriteString(string(r.Version))
	b.WriteString(crlf)
	encodeHeader(&b, r.Header)
	b.WriteString(crlf)
	b.WriteString(r.Body)
	return b.String()
}

// Encode renders the response in wire form, deriving the reason
// phrase from the status table.
func (r *Response) Encode() string {
	var b strings.Builder
	b.WriteString(string(r.Version))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(int(r.Status)))
	b.WriteByte(' ')
	b.WriteString(r.Status.Reason())
	b.WriteString(crlf)
	encodeHeader(&b, r.Header)
	b.WriteString(crlf)
	b.WriteString(r.Data)
	return b.String()
}

func encodeHeader(b *strings.Builder, h Header) {
	for _, f := range h {
		b.WriteString(f.Key)
		b.WriteString(fieldSep)
		b.WriteString(f.Value)
		b.WriteString(crlf)
	}
}

// DecodeRequest parses one raw HTTP request. Unknown method or
// version tokens degrade to the unsupported sentinels; broken framing
// is an ErrMalformedMessage.
func DecodeRequest(raw string) (*Request, error) {
	head, body, err := splitMessage(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(head, crlf)
	parts := strings.Split(lines[0], " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedMessage, lines[0])
	}

	header, err := decodeHeader(lines[1:])
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  ParseMethod(parts[0]),
		URL:     parts[1],
		Version: ParseVersion(parts[2]),
		Header:  header,
		Body:    body,
	}, nil
}

// DecodeResponse parses one raw HTTP response. The status line splits
// into version, code and reason, keeping a multi-word reason phrase
// intact; the code must be one of the known status codes.
func DecodeResponse(raw string) (*Response, error) {
	head, body, err := splitMessage(raw)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(head, crlf)
	parts := strings.SplitN(lines[0], " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: status line %q", ErrMalformedMessage, lines[0])
	}

	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: status code %q", ErrMalformedMessage, parts[1])
	}
	status := StatusCode(code)
	if !status.Known() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, code)
	}

	header, err := decodeHeader(lines[1:])
	if err != nil {
		return nil, err
	}

	return &Response{
		Version: ParseVersion(parts[0]),
		Status:  status,
		Header:  header,
		Data:    body,
	}, nil
}

// splitMessage cuts the raw text at the first blank line. Any further
// blank lines belong to the body and are preserved verbatim.
func splitMessage(raw string) (head, body string, err error) {
	head, body, ok := strings.Cut(raw, headSeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: missing head/body separator", ErrMalformedMessage)
	}
	return head, body, nil
}

func decodeHeader(lines []string) (Header, error) {
	var header Header
	for _, line := range lines {
		key, value, ok := strings.Cut(line, fieldSep)
		if !ok {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedMessage, line)
		}
		header.Set(key, value)
	}
	return header, nil
}
