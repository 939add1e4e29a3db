package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"caskdb/internal/db"
	"caskdb/internal/log"
)

// Store is the call surface the server maps the text protocol onto.
type Store interface {
	Put(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// Server speaks the line-oriented text protocol over TCP: one goroutine
// per connection, commands SET <key> <value>, GET <key>, and
// DELETE <key>, answered with "OK", the raw value bytes, or an
// "Error: <reason>" line. A malformed command produces an error line and
// leaves the connection open for further commands.
type Server struct {
	store Store

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	handlers sync.WaitGroup
	closed   atomic.Bool
}

func New(store Store) *Server {
	return &Server{
		store: store,
		conns: make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on addr and serves until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("caskdb: listen on %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on the listener, dispatching one handler
// goroutine per connection. It returns once the listener is closed.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			return fmt.Errorf("caskdb: accept: %w", err)
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.handle(conn)
		}()
	}
}

// Addr returns the listener's address, for callers that listened on an
// ephemeral port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections, closes the open ones, and waits
// for their handlers to return.
func (s *Server) Shutdown() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.handlers.Wait()
	return err
}

func (s *Server) handle(conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	remote := conn.RemoteAddr().String()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		log.Debug("received from %s: %s", remote, line)

		response := s.execute(line)
		if _, err := conn.Write(response); err != nil {
			log.Warn("write to %s: %v", remote, err)
			return
		}
	}
	if err := scanner.Err(); err != nil && !s.closed.Load() {
		log.Warn("read from %s: %v", remote, err)
	}
}

// execute runs one command line and renders the response bytes.
func (s *Server) execute(line string) []byte {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return []byte("Error: Invalid command\n")
	}

	cmd := strings.ToUpper(parts[0])
	args := parts[1:]

	switch cmd {
	case "SET":
		if len(args) != 2 {
			return []byte("Error: SET command : SET <key> <value>\n")
		}
		if err := s.store.Put(args[0], []byte(args[1])); err != nil {
			return []byte("Error: " + err.Error() + "\n")
		}
		return []byte("OK\n")

	case "GET":
		if len(args) != 1 {
			return []byte("Error: GET command: GET <key>\n")
		}
		value, err := s.store.Get(args[0])
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return []byte("Error: Key not found\n")
			}
			return []byte("Error: " + err.Error() + "\n")
		}
		return append(value, '\n')

	case "DELETE":
		if len(args) != 1 {
			return []byte("Error: DELETE command : DELETE <key>\n")
		}
		if err := s.store.Delete(args[0]); err != nil {
			return []byte("Error: " + err.Error() + "\n")
		}
		return []byte("OK\n")

	default:
		return []byte("Error: Invalid command\n")
	}
}
