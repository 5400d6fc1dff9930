// Package httputil writes HTTP/1.1 responses onto raw connections for
// consistent wire output across the serving layer.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
)

// WriteResponse writes a complete HTTP/1.1 response: status line,
// Content-Type, Content-Length, any extra headers verbatim, then the body.
// Extra headers are written in sorted name order so output is deterministic.
func WriteResponse(w io.Writer, statusCode int, contentType string, headers map[string]string, body []byte) error {
	statusText := http.StatusText(statusCode)
	if statusText == "" {
		statusText = "Unknown"
	}
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", statusCode, statusText); err != nil {
		return fmt.Errorf("failed to write status line: %w", err)
	}

	if err := writeHeader(w, "Content-Type", contentType); err != nil {
		return err
	}
	if err := writeHeader(w, "Content-Length", strconv.Itoa(len(body))); err != nil {
		return err
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeHeader(w, name, headers[name]); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return fmt.Errorf("failed to finish headers: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

func writeHeader(w io.Writer, name, value string) error {
	if _, err := fmt.Fprintf(w, "%s: %s\r\n", name, value); err != nil {
		return fmt.Errorf("failed to write header %s: %w", name, err)
	}
	return nil
}
