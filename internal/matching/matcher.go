// Package matching implements the comparison rules the director uses to
// verify an observed request against the scripted one.
package matching

import (
	"strings"

	"github.com/mgp/canned-http/pkg/script"
)

// Mismatch identifies the first field of an observed request that diverged
// from the scripted expectation. Values are formatted for diagnostics;
// an absent body renders as "(no body)".
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

// MatchRequest compares an observed request against the expectation and
// returns the first mismatch, or nil when the request conforms. Fields are
// checked in a fixed order: method, url, body, headers.
func MatchRequest(expected *script.Request, method, url string, headers map[string]string, body *string) *Mismatch {
	if !MatchMethod(expected.Method, method) {
		return &Mismatch{Field: "method", Expected: expected.Method, Actual: strings.ToUpper(method)}
	}
	if url != expected.URL {
		return &Mismatch{Field: "url", Expected: expected.URL, Actual: url}
	}
	if m := MatchBody(expected.Body, body); m != nil {
		return m
	}
	return MatchHeaders(expected.Headers, headers)
}

// MatchMethod reports whether two HTTP methods are equal ignoring case.
func MatchMethod(expected, actual string) bool {
	return strings.EqualFold(expected, actual)
}
