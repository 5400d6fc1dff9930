// Package engine is the network layer that drives the director. It owns all
// the side effects the verification core refuses to have: the TCP listener,
// HTTP/1.1 request framing, response delays, and file-backed bodies.
//
// The engine serves connections strictly one at a time and reports three
// notifications per connection lifecycle to the director: opened, one per
// request, and closed. When the director returns a canned response the
// engine transmits it and keeps reading; when it returns nothing the engine
// closes the connection; when it returns a violation the engine stops
// serving and surfaces it.
package engine
