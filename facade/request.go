package facade

import (
	"fmt"
	"net/http"
)

// BodyKind tells the shape of a request payload.
type BodyKind uint8

const (
	BodyAbsent BodyKind = iota
	BodyText
	BodyBinary
)

// String implements fmt.Stringer.
func (k BodyKind) String() string {
	switch k {
	case BodyAbsent:
		return "absent"
	case BodyText:
		return "text"
	case BodyBinary:
		return "binary"
	default:
		return fmt.Sprintf("unknown body kind %d", uint8(k))
	}
}

// Body is a request payload, as classified by the transport.
type Body struct {
	kind BodyKind
	data []byte
}

// NoBody is the absent payload.
var NoBody = Body{}

// TextBody constructs a payload that is known to be UTF-8 text.
func TextBody(s string) Body {
	return Body{kind: BodyText, data: []byte(s)}
}

// BinaryBody constructs an opaque payload.
func BinaryBody(b []byte) Body {
	return Body{kind: BodyBinary, data: b}
}

func (b Body) Kind() BodyKind {
	return b.kind
}

// Text returns the payload if it is text.
func (b Body) Text() (string, bool) {
	if b.kind != BodyText {
		return "", false
	}
	return string(b.data), true
}

// Request is what the Dispatcher needs to know about an inbound call.
type Request struct {
	Method string

	// Path parameters, "table" and "key" being the only ones used.
	Params map[string]string

	Header http.Header
	Body   Body
}
