package script

import "fmt"

// FromData builds a validated Script from the generic structure a YAML or
// JSON decoder produced: a sequence of connections, each a sequence of
// exchange maps. It performs all semantic validation; syntactic decoding is
// the caller's problem (see ParseYAML and ParseJSON).
//
// Validation rules, per exchange and in order:
//
//  1. A "request" entry is required; "response" is optional.
//  2. request.method is required and must be GET, PUT, POST, or DELETE
//     (case-insensitive; normalized to upper case).
//  3. request.url is required and non-empty.
//  4. request.headers and request.body are optional.
//  5. If a response is present, status_code and content_type are required and
//     exactly one of body and body_filename must be set.
//  6. A response may only be omitted on the final exchange of a connection.
//
// Errors are *ConstructionError carrying 1-based connection/exchange indices.
// An empty script (no connections) is valid.
func FromData(data []any) (*Script, error) {
	s := &Script{}
	for i, rawConn := range data {
		conn, err := buildConnection(i+1, rawConn)
		if err != nil {
			return nil, err
		}
		s.Connections = append(s.Connections, conn)
	}
	return s, nil
}

func buildConnection(i int, raw any) (*Connection, error) {
	exchanges, ok := raw.([]any)
	if !ok {
		return nil, &ConstructionError{Conn: i, Message: "expected a sequence of exchanges"}
	}

	conn := &Connection{}
	reachedNoReply := false
	for j, rawExchange := range exchanges {
		if reachedNoReply {
			return nil, &ConstructionError{Conn: i, Exchange: j + 1,
				Message: "reply missing for exchange preceding"}
		}

		ex, err := buildExchange(i, j+1, rawExchange)
		if err != nil {
			return nil, err
		}
		if ex.Response == nil {
			reachedNoReply = true
		}
		conn.Exchanges = append(conn.Exchanges, ex)
	}
	return conn, nil
}

func buildExchange(i, j int, raw any) (*Exchange, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "expected an exchange mapping"}
	}

	rawRequest, ok := fields["request"]
	if !ok || rawRequest == nil {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "missing 'request' key"}
	}
	request, err := buildRequest(i, j, rawRequest)
	if err != nil {
		return nil, err
	}

	ex := &Exchange{Request: request}
	if rawResponse, ok := fields["response"]; ok && rawResponse != nil {
		ex.Response, err = buildResponse(i, j, rawResponse)
		if err != nil {
			return nil, err
		}
	}
	return ex, nil
}

func buildRequest(i, j int, raw any) (*Request, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "expected a request mapping"}
	}

	method, ok := stringField(fields, "method")
	if !ok {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "missing 'method' key for request"}
	}
	normalized, valid := NormalizeMethod(method)
	if !valid {
		return nil, &ConstructionError{Conn: i, Exchange: j,
			Message: fmt.Sprintf("invalid method %q for request", method)}
	}

	url, ok := stringField(fields, "url")
	if !ok || url == "" {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "missing 'url' key for request"}
	}

	headers, err := headerField(i, j, fields, "request")
	if err != nil {
		return nil, err
	}

	req := &Request{Method: normalized, URL: url, Headers: headers}
	if body, ok := stringField(fields, "body"); ok {
		req.Body = &body
	}
	return req, nil
}

func buildResponse(i, j int, raw any) (*Response, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "expected a response mapping"}
	}

	statusCode, ok := intField(fields, "status_code")
	if !ok || statusCode == 0 {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "missing 'status_code' key for response"}
	}

	contentType, ok := stringField(fields, "content_type")
	if !ok || contentType == "" {
		return nil, &ConstructionError{Conn: i, Exchange: j, Message: "missing 'content_type' key for response"}
	}

	headers, err := headerField(i, j, fields, "response")
	if err != nil {
		return nil, err
	}
	delay, _ := intField(fields, "delay")

	resp := &Response{
		StatusCode:  statusCode,
		ContentType: contentType,
		Headers:     headers,
		DelayMs:     delay,
	}

	body, hasBody := stringField(fields, "body")
	bodyFile, hasBodyFile := stringField(fields, "body_filename")
	switch {
	case hasBody && hasBodyFile:
		return nil, &ConstructionError{Conn: i, Exchange: j,
			Message: "found both 'body' and 'body_filename' keys for response"}
	case hasBody:
		resp.Body = &body
	case hasBodyFile:
		resp.BodyFile = bodyFile
	default:
		return nil, &ConstructionError{Conn: i, Exchange: j,
			Message: "missing both 'body' and 'body_filename' keys for response"}
	}
	return resp, nil
}

// stringField fetches a field as a string, stringifying scalar values so that
// YAML bodies like `body: 42` behave the same as `body: "42"`.
func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprintf("%v", v), true
}

// intField fetches a field as an int. JSON decodes numbers as float64 while
// YAML produces int, so both are accepted.
func intField(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// headerField decodes an optional headers mapping, stringifying values.
func headerField(i, j int, fields map[string]any, in string) (map[string]string, error) {
	raw, ok := fields["headers"]
	if !ok || raw == nil {
		return map[string]string{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &ConstructionError{Conn: i, Exchange: j,
			Message: fmt.Sprintf("expected a mapping for 'headers' in %s", in)}
	}
	headers := make(map[string]string, len(m))
	for name, value := range m {
		headers[name] = fmt.Sprintf("%v", value)
	}
	return headers, nil
}
