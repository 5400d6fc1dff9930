package director

import (
	"github.com/mgp/canned-http/internal/matching"
	"github.com/mgp/canned-http/pkg/script"
)

// Director validates live connection, request, and close notifications
// against the linearized timeline of a script, handing back the canned
// response for each conforming request and a *Violation the moment the
// client diverges.
//
// A Director holds a cursor over the immutable event sequence. Peeking at
// the next expectation is non-destructive and idempotent; only a successful
// notification advances the cursor, so a failed check repeated with the same
// arguments reproduces the identical verdict.
//
// A Director is not internally synchronized. The script defines one strict
// ordering across all connections, so the driving layer must serialize calls
// to the notification methods; concurrent unordered connections are
// unsupported and surface as violations rather than being interleaved.
// Construct one Director per verification session and pass it to the serving
// layer explicitly.
type Director struct {
	events []Event
	pos    int
}

// New creates a Director for one verification session over the given script.
// The script must not be mutated afterwards.
func New(s *script.Script) *Director {
	return &Director{events: Linearize(s)}
}

// peek returns the next expected event without consuming it.
func (d *Director) peek() (*Event, bool) {
	if d.pos >= len(d.events) {
		return nil, false
	}
	return &d.events[d.pos], true
}

// advance consumes the current event.
func (d *Director) advance() {
	d.pos++
}

// ConnectionOpened records that the client opened a connection. It fails if
// the script has already ended; otherwise the next event is an opened
// expectation by construction of the timeline.
func (d *Director) ConnectionOpened() error {
	_, ok := d.peek()
	if !ok {
		return violationf(0, 0, "client opened a connection after the script ended")
	}
	d.advance()
	return nil
}

// ConnectionClosed records that the connection ended. It fails if the script
// still expects an exchange on this connection.
func (d *Director) ConnectionClosed() error {
	next, ok := d.peek()
	if !ok {
		return violationf(0, 0, "client closed a connection after the script ended")
	}
	if next.Kind == EventGotExchange {
		return violationf(next.Conn, next.Exchange,
			"client closed connection %d instead of performing exchange %d",
			next.Conn, next.Exchange)
	}
	d.advance()
	return nil
}

// GotRequest records that the client sent a request and validates it against
// the next expected exchange. On success it consumes the expectation and
// returns the canned response, which is nil when the exchange specifies no
// reply (the server sends nothing and the connection is expected to close).
// On failure it returns a *Violation and leaves the cursor in place.
//
// A nil body means the request carried no body, which is distinct from an
// empty body.
func (d *Director) GotRequest(method, url string, headers map[string]string, body *string) (*script.Response, error) {
	next, ok := d.peek()
	if !ok {
		return nil, violationf(0, 0,
			"client sent request with method %q and URL %q after the script ended", method, url)
	}
	switch next.Kind {
	case EventConnectionClosed:
		return nil, violationf(next.Conn, 0,
			"client sent request with method %q and URL %q instead of closing connection %d",
			method, url, next.Conn)
	case EventConnectionOpened:
		// Unreachable with a conforming driver; it must deliver the open
		// notification before any request on the connection.
		return nil, violationf(next.Conn, 0,
			"client sent request with method %q and URL %q before opening connection %d",
			method, url, next.Conn)
	}

	if m := matching.MatchRequest(next.Ex.Request, method, url, headers, body); m != nil {
		v := violationf(next.Conn, next.Exchange,
			"expected %s value %q, received %q for connection %d, exchange %d",
			m.Field, m.Expected, m.Actual, next.Conn, next.Exchange)
		v.Field = m.Field
		v.Expected = m.Expected
		v.Actual = m.Actual
		return nil, v
	}

	d.advance()
	return next.Ex.Response, nil
}

// IsDone reports whether the client has run the entire script. It has no
// observable side effects and stays true once the last event is consumed.
func (d *Director) IsDone() bool {
	_, ok := d.peek()
	return !ok
}
