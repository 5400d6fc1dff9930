package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/mgp/canned-http/internal/id"
	"github.com/mgp/canned-http/pkg/director"
	"github.com/mgp/canned-http/pkg/httputil"
	"github.com/mgp/canned-http/pkg/logging"
	"github.com/mgp/canned-http/pkg/script"
)

// Config holds server settings.
type Config struct {
	// Port is the TCP port to listen on. 0 picks an ephemeral port.
	Port int

	// ReadTimeout bounds how long the server waits for each request before
	// giving up on the connection. 0 disables the deadline; a client that
	// never sends the next request then parks the session forever, which is
	// the ordinary HTTP server disconnect-timeout tradeoff.
	ReadTimeout time.Duration

	// Logger receives structured serving logs. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Server drives a director from real network traffic. It accepts connections
// one at a time: the script defines a single strict ordering across all
// connections, so concurrent clients are unsupported by contract and would
// only surface as spurious violations.
type Server struct {
	dir *director.Director
	cfg Config
	log *slog.Logger

	ln      net.Listener
	connNum int
}

// New creates a Server that verifies traffic against the given director.
// The director must be dedicated to this server for the whole session.
func New(d *director.Director, cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		dir: d,
		cfg: cfg,
		log: log.With("session", id.Short()),
	}
}

// Listen binds the TCP listener without accepting yet. Addr is valid after
// Listen returns, which lets callers bind port 0 and discover the port.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	s.ln = ln
	s.log.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts and verifies connections until the script is fully run or
// the client violates it. It returns nil on a completed script and the
// terminal *director.Violation otherwise.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errors.New("server is not listening, call Listen first")
	}
	defer func() { _ = s.ln.Close() }()

	for !s.dir.IsDone() {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		if err := s.handleConn(conn); err != nil {
			return err
		}
	}

	s.log.Info("script completed")
	return nil
}

// ListenAndServe is Listen followed by Serve.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Close stops the listener. A Serve blocked in Accept returns nil.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// handleConn verifies one connection from open to close. A non-nil return is
// terminal for the whole session.
func (s *Server) handleConn(conn net.Conn) error {
	defer func() { _ = conn.Close() }()

	s.connNum++
	log := s.log.With("conn", s.connNum, "remote", conn.RemoteAddr().String())
	log.Debug("connection opened")

	if err := s.dir.ConnectionOpened(); err != nil {
		log.Error("script violated", "error", err)
		return err
	}

	br := bufio.NewReader(conn)
	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		req, err := http.ReadRequest(br)
		if err != nil {
			if isClientGone(err) {
				log.Debug("connection closed by client")
				if verr := s.dir.ConnectionClosed(); verr != nil {
					log.Error("script violated", "error", verr)
					return verr
				}
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		resp, err := s.gotRequest(log, req)
		if err != nil {
			log.Error("script violated", "error", err)
			return err
		}

		if resp == nil {
			// Scripted no-reply exchange: send nothing and end the
			// connection ourselves.
			log.Debug("no scripted reply, closing connection")
			_ = conn.Close()
			if verr := s.dir.ConnectionClosed(); verr != nil {
				log.Error("script violated", "error", verr)
				return verr
			}
			return nil
		}

		if err := s.writeResponse(conn, resp); err != nil {
			return err
		}
		log.Debug("response sent", "status", resp.StatusCode)
	}
}

// gotRequest flattens a parsed request and runs it past the director.
func (s *Server) gotRequest(log *slog.Logger, req *http.Request) (*script.Response, error) {
	method := req.Method
	url := req.RequestURI
	log.Debug("request received", "method", method, "url", url)

	headers := make(map[string]string, len(req.Header))
	for name, values := range req.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	var body *string
	if req.ContentLength > 0 {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		b := string(data)
		body = &b
	}

	return s.dir.GotRequest(method, url, headers, body)
}

// writeResponse honors the scripted delay, resolves the body, and transmits.
func (s *Server) writeResponse(conn net.Conn, resp *script.Response) error {
	if resp.DelayMs > 0 {
		time.Sleep(time.Duration(resp.DelayMs) * time.Millisecond)
	}

	var body []byte
	if resp.Body != nil {
		body = []byte(*resp.Body)
	} else {
		data, err := os.ReadFile(resp.BodyFile)
		if err != nil {
			return fmt.Errorf("failed to read response body file: %w", err)
		}
		body = data
	}

	if err := httputil.WriteResponse(conn, resp.StatusCode, resp.ContentType, resp.Headers, body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// isClientGone reports whether a read error means the client ended the
// connection rather than sent a malformed request.
func isClientGone(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET)
}
