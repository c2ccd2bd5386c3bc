package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/user/nalshow/pkg/ports"
)

// Receiver listens for frames on a UDP port and reassembles them.
type Receiver struct {
	conn    *net.UDPConn
	builder *FrameBuilder
	logger  ports.Logger
}

// Listen binds a Receiver to the given UDP port.
func Listen(port int, logger ports.Logger) (*Receiver, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("listen udp :%d: %w", port, err)
	}
	return &Receiver{
		conn:    conn,
		builder: NewFrameBuilder(),
		logger:  logger.WithComponent("receiver"),
	}, nil
}

// NextFrame blocks until a complete frame arrives or the context is
// canceled. The returned slice is valid until the frame after next starts.
func (r *Receiver) NextFrame(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Deadline so cancellation is noticed between packets.
		r.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return nil, fmt.Errorf("read packet: %w", err)
		}

		r.builder.AddData(buf[:n])
		if r.builder.Finished() {
			frame := r.builder.CurrentFrame()
			r.logger.Debug("Frame complete (%d bytes)", len(frame))
			return frame, nil
		}
	}
}

// LocalPort returns the bound UDP port.
func (r *Receiver) LocalPort() int {
	return r.conn.LocalAddr().(*net.UDPAddr).Port
}

// Close releases the socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
