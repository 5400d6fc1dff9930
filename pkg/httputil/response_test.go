package httputil

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResponse(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResponse(&buf, 200, "text/html", map[string]string{"X-Extra": "yes"}, []byte("<html>hi</html>"))
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(&buf), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "HTTP/1.1", resp.Proto)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, "yes", resp.Header.Get("X-Extra"))
	assert.Equal(t, int64(15), resp.ContentLength)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>hi</html>", string(body))
}

func TestWriteResponseEmptyBody(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResponse(&buf, 204, "text/plain", nil, nil)
	require.NoError(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(&buf), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 204, resp.StatusCode)
}

func TestWriteResponseDeterministicHeaderOrder(t *testing.T) {
	headers := map[string]string{"X-B": "2", "X-A": "1", "X-C": "3"}

	var first, second bytes.Buffer
	require.NoError(t, WriteResponse(&first, 200, "text/plain", headers, []byte("x")))
	require.NoError(t, WriteResponse(&second, 200, "text/plain", headers, []byte("x")))
	assert.Equal(t, first.String(), second.String())

	idxA := strings.Index(first.String(), "X-A")
	idxB := strings.Index(first.String(), "X-B")
	idxC := strings.Index(first.String(), "X-C")
	assert.Less(t, idxA, idxB)
	assert.Less(t, idxB, idxC)
}

func TestWriteResponseUnknownStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, 599, "text/plain", nil, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "HTTP/1.1 599 "))
}
