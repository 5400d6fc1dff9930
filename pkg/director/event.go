package director

import "github.com/mgp/canned-http/pkg/script"

// EventKind discriminates the three expectations a script linearizes into.
type EventKind int

const (
	// EventConnectionOpened expects the client to open a connection.
	EventConnectionOpened EventKind = iota + 1
	// EventGotExchange expects the client to perform one request.
	EventGotExchange
	// EventConnectionClosed expects the connection to end.
	EventConnectionClosed
)

// String returns the kind name used in diagnostics.
func (k EventKind) String() string {
	switch k {
	case EventConnectionOpened:
		return "connection_opened"
	case EventGotExchange:
		return "got_exchange"
	case EventConnectionClosed:
		return "connection_closed"
	default:
		return "unknown"
	}
}

// Event is one linearized expectation. Conn and Exchange are 1-based and
// exist only for diagnostics; Exchange and the exchange pointer are set only
// for EventGotExchange.
type Event struct {
	Kind     EventKind
	Conn     int
	Exchange int
	Ex       *script.Exchange
}

// Linearize flattens a script into its authoritative expected timeline: for
// each connection an opened event, one exchange event per exchange, then a
// closed event. The order is exactly the declaration order of the script;
// the resulting length is the sum of len(exchanges)+2 over all connections.
func Linearize(s *script.Script) []Event {
	events := make([]Event, 0, s.NumExchanges()+2*len(s.Connections))
	for i, conn := range s.Connections {
		events = append(events, Event{Kind: EventConnectionOpened, Conn: i + 1})
		for j, ex := range conn.Exchanges {
			events = append(events, Event{Kind: EventGotExchange, Conn: i + 1, Exchange: j + 1, Ex: ex})
		}
		events = append(events, Event{Kind: EventConnectionClosed, Conn: i + 1})
	}
	return events
}
