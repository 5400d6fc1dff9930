package script

import (
	"fmt"
	"strings"
)

// Methods a scripted request may use.
var validMethods = map[string]bool{
	"GET":    true,
	"PUT":    true,
	"POST":   true,
	"DELETE": true,
}

// Script is the full declarative specification of the connections a client is
// expected to open, the requests it is expected to send on each, and the
// canned replies the server returns. Connection order is significant: it is
// the required order of client connections.
//
// A Script is immutable after construction. Build one with FromData or one of
// the Parse/Load helpers; never mutate it while a Director holds it.
type Script struct {
	Connections []*Connection
}

// Connection is one persistent client-to-server session. HTTP 1.1 keeps
// connections open across requests, so a connection is an ordered sequence of
// exchanges. Every exchange except possibly the last must carry a response;
// a response-less exchange tells the server to send nothing and is only legal
// as the terminal exchange of its connection.
type Connection struct {
	Exchanges []*Exchange
}

// Exchange is one request received from the client and the optional canned
// reply sent back.
type Exchange struct {
	Request  *Request
	Response *Response // nil means the server sends nothing
}

// Request holds the expected values of one client request.
type Request struct {
	// Method is the expected HTTP method, normalized to upper case.
	Method string

	// URL is compared verbatim against the request target. No trailing-slash,
	// query-string, or percent-encoding normalization is applied.
	URL string

	// Headers is a required subset: every entry must be present in the actual
	// request with a matching value. Names and values compare
	// case-insensitively. Extra headers on the actual request are ignored.
	Headers map[string]string

	// Body is the expected request body. nil means the request must carry no
	// body, which is distinct from an expected empty body ("").
	Body *string
}

// Response is a canned reply. Exactly one of Body and BodyFile is set.
type Response struct {
	StatusCode  int
	ContentType string

	// Headers are sent verbatim in addition to Content-Type and Content-Length.
	Headers map[string]string

	// DelayMs is how long the serving layer waits before transmitting,
	// useful for simulating long-polling.
	DelayMs int

	Body     *string
	BodyFile string
}

// NumExchanges returns the total exchange count across all connections.
func (s *Script) NumExchanges() int {
	n := 0
	for _, c := range s.Connections {
		n += len(c.Exchanges)
	}
	return n
}

// NormalizeMethod upper-cases a method and reports whether it is one of the
// methods a script may use.
func NormalizeMethod(method string) (string, bool) {
	upper := strings.ToUpper(method)
	return upper, validMethods[upper]
}

// ConstructionError reports a structurally invalid script. It is raised only
// while building a Script from raw data and is always fatal to startup; it is
// disjoint from the runtime violations the director reports.
type ConstructionError struct {
	// Conn and Exchange are 1-based coordinates of the offending exchange.
	// Exchange is 0 when the error is not tied to a particular exchange.
	Conn     int
	Exchange int
	Message  string
}

func (e *ConstructionError) Error() string {
	if e.Exchange > 0 {
		return fmt.Sprintf("%s for connection %d, exchange %d", e.Message, e.Conn, e.Exchange)
	}
	return fmt.Sprintf("%s for connection %d", e.Message, e.Conn)
}
