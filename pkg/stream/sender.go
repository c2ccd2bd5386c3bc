package stream

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/user/nalshow/pkg/ports"
)

// Sender transmits frames to a receiver over UDP.
type Sender struct {
	conn     net.Conn
	interval time.Duration
	logger   ports.Logger
}

// Dial connects a Sender to the given address (host:port).
// interval is the pause between frames; zero sends as fast as possible.
func Dial(addr string, interval time.Duration, logger ports.Logger) (*Sender, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Sender{
		conn:     conn,
		interval: interval,
		logger:   logger.WithComponent("sender"),
	}, nil
}

// SendFrame chunks one frame into packets and transmits them, terminated
// by the FrameEnd marker.
func (s *Sender) SendFrame(frame []byte) error {
	for _, packet := range Packetize(frame) {
		if _, err := s.conn.Write(packet); err != nil {
			return fmt.Errorf("send packet: %w", err)
		}
	}
	return nil
}

// SendStream transmits a sequence of frames, pacing them by the configured
// interval.
func (s *Sender) SendStream(ctx context.Context, frames [][]byte) error {
	ticker := time.NewTicker(s.effectiveInterval())
	defer ticker.Stop()

	for i, frame := range frames {
		if err := s.SendFrame(frame); err != nil {
			return err
		}
		s.logger.Debug("Sent frame %d (%d bytes)", i, len(frame))

		if i == len(frames)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (s *Sender) effectiveInterval() time.Duration {
	if s.interval <= 0 {
		return time.Millisecond
	}
	return s.interval
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}
