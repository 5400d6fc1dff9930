// Package script defines the declarative script a canned HTTP session is
// verified against, and builds validated scripts from YAML or JSON input.
//
// A script is a sequence of connections; each connection is a sequence of
// exchanges; each exchange pairs an expected client request with an optional
// canned response. In the concrete file formats a script is an array of
// arrays of exchange mappings:
//
//	- - request:
//	      method: GET
//	      url: /index.html
//	    response:
//	      status_code: 200
//	      content_type: text/html
//	      body: <html>Hello!</html>
//
// Key types:
//
//   - Script, Connection, Exchange, Request, Response: the immutable model
//   - ConstructionError: a structural validation failure with 1-based
//     connection/exchange coordinates
//
// Build scripts with FromData (from already-decoded generic data) or with
// ParseYAML, ParseJSON, and the Load*File helpers. All validation happens at
// construction time; a Script that exists is structurally valid.
package script
