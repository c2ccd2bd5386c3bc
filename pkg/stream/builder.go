package stream

import (
	"bytes"
)

// FrameBuilder reassembles frames from incoming packets.
//
// Two buffers alternate so a completed frame stays readable while the next
// one is being filled. A packet whose identifier is not greater than the
// last one seen starts a new frame, which covers both a missed FrameEnd
// and an identifier reset by the sender.
type FrameBuilder struct {
	buffers  [2][]byte
	lengths  [2]int
	selected int

	lastPacket uint32
	finished   bool
}

// NewFrameBuilder creates a FrameBuilder with both buffers allocated.
func NewFrameBuilder() *FrameBuilder {
	return &FrameBuilder{
		buffers: [2][]byte{
			make([]byte, MaxFrameSize),
			make([]byte, MaxFrameSize),
		},
	}
}

// AddData feeds one received packet. Malformed packets are dropped, losing
// a packet only degrades the frame.
func (b *FrameBuilder) AddData(packet []byte) {
	if bytes.Equal(packet, FrameEnd) {
		b.finished = true
		return
	}

	payload, ident, err := DecodePacket(packet)
	if err != nil || ident == 0 {
		return
	}

	// A finished frame or a rewound identifier means a new frame started.
	if b.finished || ident <= b.lastPacket {
		b.switchBuffer()
	}

	offset := int(ident-1) * PacketDataSize
	if offset+len(payload) > MaxFrameSize {
		return
	}

	copy(b.buffers[b.selected][offset:], payload)
	if end := offset + len(payload); end > b.lengths[b.selected] {
		b.lengths[b.selected] = end
	}
	b.lastPacket = ident
}

// Finished reports whether the current frame saw its FrameEnd marker.
func (b *FrameBuilder) Finished() bool {
	return b.finished
}

// CurrentFrame returns the bytes of the frame being assembled.
func (b *FrameBuilder) CurrentFrame() []byte {
	return b.buffers[b.selected][:b.lengths[b.selected]]
}

// LastFrame returns the previously completed frame, or nil if none
// finished yet.
func (b *FrameBuilder) LastFrame() []byte {
	other := (b.selected + 1) % len(b.buffers)
	if b.lengths[other] == 0 {
		return nil
	}
	return b.buffers[other][:b.lengths[other]]
}

// switchBuffer rotates to the next buffer and resets per-frame state.
func (b *FrameBuilder) switchBuffer() {
	b.selected = (b.selected + 1) % len(b.buffers)
	b.lengths[b.selected] = 0
	b.lastPacket = 0
	b.finished = false
}
