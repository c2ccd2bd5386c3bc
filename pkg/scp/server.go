package scp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"

	"github.com/user/nalshow/pkg/ports"
)

// Handler processes one incoming message and optionally returns a reply.
type Handler func(msg Message) *Message

// Server answers control messages on a TCP socket.
type Server struct {
	ln      net.Listener
	handler Handler
	logger  ports.Logger
}

// NewServer binds a control server to the given TCP port.
func NewServer(port int, handler Handler, logger ports.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen tcp :%d: %w", port, err)
	}
	return &Server{
		ln:      ln,
		handler: handler,
		logger:  logger.WithComponent("scp"),
	}, nil
}

// LocalPort returns the bound TCP port.
func (s *Server) LocalPort() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Serve accepts connections until the context is canceled or the listener
// is closed.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		msg, err := ReadMessage(r)
		if err != nil {
			if err != io.EOF {
				s.logger.Debug("Control connection closed: %s", err)
			}
			return
		}
		s.logger.Debug("Received %s", msg.Command)

		if reply := s.handler(msg); reply != nil {
			if _, err := conn.Write(reply.Marshal()); err != nil {
				s.logger.Debug("Control reply failed: %s", err)
				return
			}
		}
		if msg.Command == CommandEnd {
			return
		}
	}
}

// Close shuts the listener down.
func (s *Server) Close() error {
	return s.ln.Close()
}

// ReadMessage reads one message from the stream, consuming bytes up to and
// including the end marker.
func ReadMessage(r *bufio.Reader) (Message, error) {
	var raw []byte
	for {
		line, err := r.ReadBytes('\n')
		raw = append(raw, line...)
		if err != nil {
			if err == io.EOF && len(raw) == 0 {
				return Message{}, io.EOF
			}
			return Message{}, err
		}
		if bytes.HasSuffix(raw, End) && len(raw) > len(Header)+len(End) {
			return Unmarshal(raw)
		}
	}
}

// Send writes one message to addr over TCP and, when wantReply is set,
// waits for a single reply.
func Send(addr string, msg Message, wantReply bool) (*Message, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(msg.Marshal()); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	if !wantReply {
		return nil, nil
	}

	reply, err := ReadMessage(bufio.NewReader(conn))
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	return &reply, nil
}
