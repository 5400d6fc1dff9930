package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgp/canned-http/pkg/script"
)

func strptr(s string) *string { return &s }

// makeScript builds a script where each entry is one connection and each
// element of the entry is one exchange.
func makeScript(t *testing.T, conns ...[]*script.Exchange) *script.Script {
	t.Helper()
	s := &script.Script{}
	for _, exchanges := range conns {
		s.Connections = append(s.Connections, &script.Connection{Exchanges: exchanges})
	}
	return s
}

func getExchange(url, body string) *script.Exchange {
	return &script.Exchange{
		Request: &script.Request{Method: "GET", URL: url, Headers: map[string]string{}},
		Response: &script.Response{
			StatusCode:  200,
			ContentType: "text/html",
			Headers:     map[string]string{},
			Body:        strptr(body),
		},
	}
}

func noReplyExchange(url string) *script.Exchange {
	return &script.Exchange{
		Request: &script.Request{Method: "GET", URL: url, Headers: map[string]string{}},
	}
}

func TestLinearizeEventCount(t *testing.T) {
	tests := []struct {
		name          string
		exchangeSizes []int
	}{
		{"empty script", nil},
		{"one empty connection", []int{0}},
		{"single exchange", []int{1}},
		{"multiple connections", []int{2, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var conns [][]*script.Exchange
			want := 0
			for _, n := range tt.exchangeSizes {
				var exchanges []*script.Exchange
				for j := 0; j < n; j++ {
					exchanges = append(exchanges, getExchange("/x", "body"))
				}
				conns = append(conns, exchanges)
				want += 2 + n
			}

			events := Linearize(makeScript(t, conns...))
			assert.Len(t, events, want)
		})
	}
}

func TestLinearizeOrderAndIndices(t *testing.T) {
	s := makeScript(t,
		[]*script.Exchange{getExchange("/a", "1"), getExchange("/b", "2")},
		[]*script.Exchange{getExchange("/c", "3")},
	)

	events := Linearize(s)
	require.Len(t, events, 7)

	assert.Equal(t, Event{Kind: EventConnectionOpened, Conn: 1}, events[0])
	assert.Equal(t, EventGotExchange, events[1].Kind)
	assert.Equal(t, 1, events[1].Conn)
	assert.Equal(t, 1, events[1].Exchange)
	assert.Equal(t, 2, events[2].Exchange)
	assert.Equal(t, Event{Kind: EventConnectionClosed, Conn: 1}, events[3])
	assert.Equal(t, Event{Kind: EventConnectionOpened, Conn: 2}, events[4])
	assert.Equal(t, 2, events[5].Conn)
	assert.Equal(t, Event{Kind: EventConnectionClosed, Conn: 2}, events[6])
}

func TestEmptyScriptImmediatelyDone(t *testing.T) {
	d := New(&script.Script{})
	assert.True(t, d.IsDone())
	assert.True(t, d.IsDone())
}

func TestSingleExchangeSession(t *testing.T) {
	d := New(makeScript(t, []*script.Exchange{getExchange("/a.html", "hi")}))

	assert.False(t, d.IsDone())
	require.NoError(t, d.ConnectionOpened())
	assert.False(t, d.IsDone())

	resp, err := d.GotRequest("GET", "/a.html", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "hi", *resp.Body)

	assert.False(t, d.IsDone())
	require.NoError(t, d.ConnectionClosed())
	assert.True(t, d.IsDone())
	assert.True(t, d.IsDone())
}

func TestIsDoneCountsConsumingCalls(t *testing.T) {
	d := New(makeScript(t, []*script.Exchange{getExchange("/a", "1"), getExchange("/b", "2")}))

	// 2 exchanges + open + close = 4 consuming calls.
	steps := []func() error{
		d.ConnectionOpened,
		func() error { _, err := d.GotRequest("GET", "/a", nil, nil); return err },
		func() error { _, err := d.GotRequest("GET", "/b", nil, nil); return err },
		d.ConnectionClosed,
	}
	for i, step := range steps {
		assert.False(t, d.IsDone(), "done before consuming call %d", i+1)
		require.NoError(t, step())
	}
	assert.True(t, d.IsDone())
}

func TestNoReplyOnFinalExchange(t *testing.T) {
	d := New(makeScript(t, []*script.Exchange{
		getExchange("/first", "one"),
		noReplyExchange("/poll"),
	}))

	require.NoError(t, d.ConnectionOpened())

	resp, err := d.GotRequest("GET", "/first", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)

	resp, err = d.GotRequest("GET", "/poll", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, resp)

	require.NoError(t, d.ConnectionClosed())
	assert.True(t, d.IsDone())
}

func TestMethodMismatch(t *testing.T) {
	ex := &script.Exchange{
		Request:  &script.Request{Method: "PUT", URL: "/item"},
		Response: getExchange("/item", "x").Response,
	}
	d := New(makeScript(t, []*script.Exchange{ex}))
	require.NoError(t, d.ConnectionOpened())

	_, err := d.GotRequest("GET", "/item", nil, nil)
	require.Error(t, err)

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "method", v.Field)
	assert.Equal(t, "PUT", v.Expected)
	assert.Equal(t, "GET", v.Actual)
	assert.Equal(t, 1, v.Conn)
	assert.Equal(t, 1, v.Exchange)
	assert.Contains(t, err.Error(), `"PUT"`)
	assert.Contains(t, err.Error(), `"GET"`)
	assert.Contains(t, err.Error(), "connection 1, exchange 1")
}

func TestFailedRequestDoesNotAdvanceCursor(t *testing.T) {
	d := New(makeScript(t, []*script.Exchange{getExchange("/right", "ok")}))
	require.NoError(t, d.ConnectionOpened())

	_, first := d.GotRequest("GET", "/wrong", nil, nil)
	require.Error(t, first)
	_, second := d.GotRequest("GET", "/wrong", nil, nil)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())

	// The expected exchange is still current and can succeed.
	resp, err := d.GotRequest("GET", "/right", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestOpenAfterScriptEnded(t *testing.T) {
	d := New(&script.Script{})

	err := d.ConnectionOpened()
	require.Error(t, err)

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Contains(t, err.Error(), "after the script ended")
}

func TestCloseInsteadOfExchange(t *testing.T) {
	d := New(makeScript(t, []*script.Exchange{getExchange("/a", "1")}))
	require.NoError(t, d.ConnectionOpened())

	err := d.ConnectionClosed()
	require.Error(t, err)

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 1, v.Conn)
	assert.Equal(t, 1, v.Exchange)
	assert.Contains(t, err.Error(), "instead of performing exchange 1")

	// Failure did not consume the exchange.
	resp, err := d.GotRequest("GET", "/a", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestRequestInsteadOfClose(t *testing.T) {
	d := New(makeScript(t, []*script.Exchange{getExchange("/a", "1")}))
	require.NoError(t, d.ConnectionOpened())
	_, err := d.GotRequest("GET", "/a", nil, nil)
	require.NoError(t, err)

	_, err = d.GotRequest("GET", "/extra", nil, nil)
	require.Error(t, err)

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, 1, v.Conn)
	assert.Contains(t, err.Error(), "instead of closing connection 1")

	// The close expectation is still current.
	require.NoError(t, d.ConnectionClosed())
	assert.True(t, d.IsDone())
}

func TestHeaderAndBodyMatching(t *testing.T) {
	ex := &script.Exchange{
		Request: &script.Request{
			Method:  "POST",
			URL:     "/submit",
			Headers: map[string]string{"X-Token": "Secret"},
			Body:    strptr("payload"),
		},
		Response: getExchange("/submit", "done").Response,
	}

	t.Run("case-insensitive headers and incidental extras accepted", func(t *testing.T) {
		d := New(makeScript(t, []*script.Exchange{ex}))
		require.NoError(t, d.ConnectionOpened())

		headers := map[string]string{
			"x-token":    "sEcReT",
			"User-Agent": "curl/8.0",
		}
		resp, err := d.GotRequest("post", "/submit", headers, strptr("payload"))
		require.NoError(t, err)
		require.NotNil(t, resp)
	})

	t.Run("missing expected header", func(t *testing.T) {
		d := New(makeScript(t, []*script.Exchange{ex}))
		require.NoError(t, d.ConnectionOpened())

		_, err := d.GotRequest("POST", "/submit", map[string]string{"User-Agent": "curl"}, strptr("payload"))
		require.Error(t, err)

		var v *Violation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "header x-token", v.Field)
	})

	t.Run("body must be present", func(t *testing.T) {
		d := New(makeScript(t, []*script.Exchange{ex}))
		require.NoError(t, d.ConnectionOpened())

		_, err := d.GotRequest("POST", "/submit", map[string]string{"X-Token": "Secret"}, nil)
		require.Error(t, err)

		var v *Violation
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "body", v.Field)
	})
}

func TestMultipleConnections(t *testing.T) {
	d := New(makeScript(t,
		[]*script.Exchange{getExchange("/one", "1")},
		[]*script.Exchange{getExchange("/two", "2")},
	))

	require.NoError(t, d.ConnectionOpened())
	_, err := d.GotRequest("GET", "/one", nil, nil)
	require.NoError(t, err)
	require.NoError(t, d.ConnectionClosed())
	assert.False(t, d.IsDone())

	require.NoError(t, d.ConnectionOpened())
	_, err = d.GotRequest("GET", "/two", nil, nil)
	require.NoError(t, err)
	require.NoError(t, d.ConnectionClosed())
	assert.True(t, d.IsDone())
}
