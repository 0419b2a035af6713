package testutils

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeServer is a single-connection Redis stand-in answering AUTH and INFO.
// Configure the exported fields before calling Start.
type FakeServer struct {
	Username string // ACL user expected by AUTH, "" for the default user
	Password string // password expected by AUTH
	Info     string // INFO payload, sent as a bulk string

	// InfoReply, when set, is written verbatim instead of the framed Info.
	InfoReply string
	// CloseAfterInfo closes the connection once the INFO reply is written.
	CloseAfterInfo bool

	listener net.Listener
	closed   chan struct{}

	mu       sync.Mutex
	commands [][]string
}

// Start listens on a random loopback port and serves the first connection.
// The listener is closed when the test ends.
func (s *FakeServer) Start(t testing.TB) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start test server: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	s.listener = listener
	s.closed = make(chan struct{})

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer close(s.closed)
		defer conn.Close()
		s.serve(conn)
	}()

	return listener.Addr().String()
}

// ClientClosed is closed once the client hangs up.
func (s *FakeServer) ClientClosed() <-chan struct{} {
	return s.closed
}

// Commands returns the commands received so far.
func (s *FakeServer) Commands() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.commands...)
}

func (s *FakeServer) serve(conn net.Conn) {
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}

		s.mu.Lock()
		s.commands = append(s.commands, args)
		s.mu.Unlock()

		switch strings.ToUpper(args[0]) {
		case "AUTH":
			io.WriteString(conn, s.authReply(args[1:]))
		case "INFO":
			if s.InfoReply != "" {
				io.WriteString(conn, s.InfoReply)
			} else {
				io.WriteString(conn, InfoReply(s.Info))
			}
			if s.CloseAfterInfo {
				return
			}
		default:
			io.WriteString(conn, "-ERR unknown command '"+args[0]+"'\r\n")
		}
	}
}

func (s *FakeServer) authReply(args []string) string {
	var user, pass string
	switch len(args) {
	case 1:
		user, pass = "", args[0]
	case 2:
		user, pass = args[0], args[1]
	default:
		return "-ERR wrong number of arguments for 'auth' command\r\n"
	}

	if user == s.Username && pass == s.Password {
		return "+OK\r\n"
	}
	return "-WRONGPASS invalid username-password pair or user is disabled.\r\n"
}

// readCommand reads one array-of-bulk-strings request.
func readCommand(r *bufio.Reader) ([]string, error) {
	n, err := readHeader(r, '*')
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, io.ErrUnexpectedEOF
	}

	args := make([]string, n)
	for i := range args {
		size, err := readHeader(r, '$')
		if err != nil {
			return nil, err
		}
		if size < 0 {
			return nil, io.ErrUnexpectedEOF
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args[i] = string(buf[:size])
	}
	return args, nil
}

func readHeader(r *bufio.Reader, marker byte) (int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimSuffix(line, "\r\n")
	if len(line) < 2 || line[0] != marker {
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.Atoi(line[1:])
}
