package hookclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"pixelpet.ai/internal/protocol"
)

// ErrSocketAbsent means the daemon is simply not running. Hooks treat this
// as success from the host CLI's point of view.
var ErrSocketAbsent = errors.New("daemon socket not present")

// stepTimeout bounds each of connect, write and ack-read independently.
const stepTimeout = time.Second

// Sender delivers one event to the daemon with a bounded wall-clock budget.
// Every failure is written to the side log, never to the hook's own
// stdout/stderr, so the host CLI's output stays clean.
type Sender struct {
	SocketPath string
	LogPath    string
}

// Send connects, writes one framed event and waits for the raw 2-byte OK.
// Any error short of success is also recorded in the side log.
func (s *Sender) Send(ev protocol.ClaudeEvent) error {
	err := s.send(ev)
	if err != nil && !errors.Is(err, ErrSocketAbsent) {
		s.logError(err)
	}
	return err
}

func (s *Sender) send(ev protocol.ClaudeEvent) error {
	if _, err := os.Stat(s.SocketPath); err != nil {
		return ErrSocketAbsent
	}

	conn, err := net.DialTimeout("unix", s.SocketPath, stepTimeout)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(stepTimeout))
	if err := protocol.WriteFrame(conn, payload); err != nil {
		return fmt.Errorf("send event: %w", err)
	}

	// The ack is exactly two raw bytes, no length prefix.
	var ack [2]byte
	_ = conn.SetReadDeadline(time.Now().Add(stepTimeout))
	if _, err := io.ReadFull(conn, ack[:]); err != nil {
		return fmt.Errorf("read ack: %w", err)
	}
	if string(ack[:]) != protocol.AckOK {
		return fmt.Errorf("unexpected ack %q", ack[:])
	}
	return nil
}

func (s *Sender) logError(sendErr error) {
	if s.LogPath == "" {
		return
	}
	f, err := os.OpenFile(s.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %v\n", time.Now().UTC().Format(time.RFC3339), sendErr)
}
