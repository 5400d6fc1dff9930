package director

import "fmt"

// Violation reports that the live client diverged from the script. It is
// terminal for the verification session: callers must stop driving the
// director and report failure, never retry past it.
//
// Conn and Exchange are the 1-based coordinates of the expectation that was
// violated; Exchange is 0 when the violation is not tied to a particular
// exchange. Field, Expected, and Actual are set only for request field
// mismatches.
type Violation struct {
	Conn     int
	Exchange int
	Field    string
	Expected string
	Actual   string
	message  string
}

func (v *Violation) Error() string {
	return v.message
}

func violationf(conn, exchange int, format string, args ...any) *Violation {
	return &Violation{
		Conn:     conn,
		Exchange: exchange,
		message:  fmt.Sprintf(format, args...),
	}
}
