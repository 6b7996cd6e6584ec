package control

import (
	"encoding/json"
	"fmt"
	"net"
)

// Client talks to a running control Server over its unix socket.
type Client struct {
	socketPath string
}

// NewClient creates a control client targeting socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Stats fetches a live diagnostic snapshot from the daemon.
func (c *Client) Stats() (Stats, error) {
	resp, err := c.call(Request{Command: "stats"})
	if err != nil {
		return Stats{}, err
	}
	if resp.Stats == nil {
		return Stats{}, fmt.Errorf("daemon returned no stats")
	}
	return *resp.Stats, nil
}

// ResetAEC asks the daemon to zero the echo canceller's adaptive filter.
func (c *Client) ResetAEC() error {
	_, err := c.call(Request{Command: "reset-aec"})
	return err
}

// SetPreset asks the daemon to switch its granular preset.
func (c *Client) SetPreset(name string) error {
	_, err := c.call(Request{Command: "set-preset", Preset: name})
	return err
}

// call sends req and decodes the daemon's response, turning an
// in-band Response.Error into a Go error.
func (c *Client) call(req Request) (Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return Response{}, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.Error != "" {
		return resp, fmt.Errorf("%s", resp.Error)
	}
	return resp, nil
}
