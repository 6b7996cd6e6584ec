// Package control exposes the live dreamy pipeline over a unix socket
// so a sibling CLI invocation can introspect and nudge a running
// daemon: stats, reset-aec, set-preset. Each connection carries one
// JSON Request and gets back one JSON Response — typed fields instead
// of the daemon's old free-form "OK: ..."/"ERROR: ..." text lines,
// since "stats" now returns structured diagnostics rather than a
// string to be reparsed.
package control

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/mwilder/dreamysound/internal/dsp"
)

// Server binds a live pipeline to a unix socket.
type Server struct {
	socketPath string
	pipeline   *dsp.Pipeline
	listener   net.Listener
}

// NewServer builds a control server that will answer requests against pipeline.
func NewServer(socketPath string, pipeline *dsp.Pipeline) *Server {
	return &Server{socketPath: socketPath, pipeline: pipeline}
}

// Start begins listening and accepting connections in the background.
func (s *Server) Start() error {
	os.Remove(s.socketPath)

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	fmt.Printf("🔌 control server listening on: %s\n", s.socketPath)

	go s.acceptConnections()
	return nil
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		json.NewEncoder(conn).Encode(Response{Error: fmt.Sprintf("malformed request: %v", err)})
		return
	}

	json.NewEncoder(conn).Encode(s.dispatch(req))
}

// dispatch runs one request against the pipeline and returns the
// response, independent of any socket — the seam tests call directly.
func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case "stats":
		return Response{
			OK: true,
			Stats: &Stats{
				VoiceActive: s.pipeline.VoiceActive(),
				GrainCount:  s.pipeline.LiveGrainCount(),
				VADEnergy:   s.pipeline.VADEnergy(),
			},
		}

	case "reset-aec":
		s.pipeline.ResetEchoCanceller()
		return Response{OK: true}

	case "set-preset":
		preset, ok := dsp.Presets[req.Preset]
		if !ok {
			return Response{Error: fmt.Sprintf("unknown preset %q", req.Preset)}
		}
		s.pipeline.ApplyPreset(preset)
		return Response{OK: true, Preset: req.Preset}

	case "":
		return Response{Error: "empty command"}

	default:
		return Response{Error: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

// Stop closes the listener and removes the socket file.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
