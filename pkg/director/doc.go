// Package director is the verification engine of the canned HTTP server.
//
// It flattens a script into a single ordered sequence of expected events
// (connection opened, one event per exchange, connection closed) and steps a
// cursor over that sequence as the serving layer reports what the client
// actually did. A conforming request yields its canned response; any
// divergence yields a *Violation that ends the session.
//
// The director performs no I/O and never blocks: delays, file bodies, and
// timeouts belong to the serving layer.
package director
