package statusclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"pixelpet.ai/internal/protocol"
)

// ErrNotRunning is returned when the daemon socket is absent or refuses the
// connection. Unlike the hook client, this one exists to tell a human.
var ErrNotRunning = errors.New("game not running")

const rpcTimeout = 2 * time.Second

// Client performs one framed QUERY or ACTION round-trip per call.
type Client struct {
	SocketPath string
}

func (c *Client) Query(name string) (map[string]any, error) {
	return c.roundTrip(protocol.QueryMsg{Type: protocol.TypeQuery, Query: name})
}

func (c *Client) Do(action string, data map[string]any) (map[string]any, error) {
	return c.roundTrip(protocol.ActionMsg{Type: protocol.TypeAction, Action: action, Data: data})
}

func (c *Client) roundTrip(msg any) (map[string]any, error) {
	if _, err := os.Stat(c.SocketPath); err != nil {
		return nil, ErrNotRunning
	}
	conn, err := net.DialTimeout("unix", c.SocketPath, rpcTimeout)
	if err != nil {
		return nil, ErrNotRunning
	}
	defer conn.Close()

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(rpcTimeout))
	if err := protocol.WriteFrame(conn, payload); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	// Queries and actions with a registered handler always come back framed;
	// only event acks use the raw 2-byte form.
	resp, err := protocol.ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var result map[string]any
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}
