package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"

	"pixelpet.ai/internal/protocol"
)

// QueryHandler answers a QUERY message; the result is framed back as JSON.
type QueryHandler func(ctx context.Context, query string) (any, error)

// ActionHandler executes an ACTION message; same framing rule as queries.
type ActionHandler func(ctx context.Context, action string, data map[string]any) (any, error)

// EventHandler consumes one decoded wire event. The bridge acknowledges the
// client only after the handler returns.
type EventHandler func(ctx context.Context, ev protocol.ClaudeEvent) error

// ErrorSink receives errors the bridge swallows while serving a connection,
// so tests can assert on them instead of scraping stderr.
type ErrorSink func(connID string, err error)

type Server struct {
	path string
	log  *log.Logger

	onQuery  QueryHandler
	onAction ActionHandler
	onEvent  EventHandler
	errSink  ErrorSink

	mu    sync.Mutex
	ln    net.Listener
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewServer(socketPath string, logger *log.Logger) *Server {
	return &Server{path: socketPath, log: logger, conns: make(map[net.Conn]struct{})}
}

func (s *Server) OnQuery(h QueryHandler)   { s.onQuery = h }
func (s *Server) OnAction(h ActionHandler) { s.onAction = h }
func (s *Server) OnEvent(h EventHandler)   { s.onEvent = h }
func (s *Server) OnError(sink ErrorSink)   { s.errSink = sink }

// Serve binds the socket and accepts until the context is cancelled. A stale
// socket file from a crashed instance is unlinked before binding; a second
// live instance therefore steals the socket rather than failing to start.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	if s.log != nil {
		s.log.Printf("listening on %s", s.path)
	}

	go func() {
		<-ctx.Done()
		s.closeListener()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.wg.Wait()
			s.unlink()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(conn, false)
			s.serveConn(ctx, conn)
		}()
	}
}

// Close stops accepting and unlinks the socket file.
func (s *Server) Close() {
	s.closeListener()
}

func (s *Server) closeListener() {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	open := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		open = append(open, c)
	}
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	for _, c := range open {
		_ = c.Close()
	}
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
	s.mu.Unlock()
}

func (s *Server) unlink() {
	_ = os.Remove(s.path)
}

// serveConn handles one client. Frames on a connection are processed
// strictly in order: the next frame is read only after the previous reply
// is fully written. Any failure closes just this connection.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	reply := replyWriter{w: conn}

	for {
		payload, err := protocol.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.swallow(connID, err)
			}
			return
		}

		base, err := protocol.DecodeBase(payload)
		if err != nil {
			// Malformed JSON keeps the connection alive; the client gets the
			// raw ERR reply and may try again.
			if werr := reply.writeRawErr(); werr != nil {
				s.swallow(connID, werr)
				return
			}
			continue
		}

		if err := s.dispatch(ctx, reply, payload, base.Type); err != nil {
			s.swallow(connID, err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, reply replyWriter, payload []byte, msgType string) error {
	switch msgType {
	case protocol.TypeQuery:
		var q protocol.QueryMsg
		if err := json.Unmarshal(payload, &q); err != nil {
			return reply.writeRawErr()
		}
		if s.onQuery == nil {
			return reply.writeRawAck()
		}
		result, err := s.onQuery(ctx, q.Query)
		if err != nil {
			result = map[string]any{"error": err.Error()}
		}
		return reply.writeFramedResponse(result)

	case protocol.TypeAction:
		var a protocol.ActionMsg
		if err := json.Unmarshal(payload, &a); err != nil {
			return reply.writeRawErr()
		}
		if s.onAction == nil {
			return reply.writeRawAck()
		}
		result, err := s.onAction(ctx, a.Action, a.Data)
		if err != nil {
			result = map[string]any{"error": err.Error()}
		}
		return reply.writeFramedResponse(result)

	default:
		// Anything else is a wire event.
		var ev protocol.ClaudeEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return reply.writeRawErr()
		}
		ev.Type = protocol.NormalizeEventType(string(ev.Type))
		if s.onEvent != nil {
			if err := s.onEvent(ctx, ev); err != nil {
				return err
			}
		}
		return reply.writeRawAck()
	}
}

func (s *Server) swallow(connID string, err error) {
	if s.errSink != nil {
		s.errSink(connID, err)
	}
	if s.log != nil {
		s.log.Printf("conn %s: %v", connID, err)
	}
}
