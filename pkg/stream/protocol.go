// Package stream implements the UDP transport for H.264 elementary streams.
//
// Each encoded frame is chunked into packets of PacketDataSize bytes
// followed by a 4-byte little-endian packet identifier, and terminated by
// the FrameEnd marker. Identifiers start at 1 and reset for every frame,
// which lets the receiver detect both gaps and frame boundaries.
package stream

import (
	"encoding/binary"
	"errors"
)

const (
	// PacketDataSize is the payload size of one packet, excluding the
	// identifier. 504+4 bytes stays under the 508 byte limit that avoids
	// IP fragmentation on any sane path.
	PacketDataSize = 504

	// identSize is the length of the trailing packet identifier.
	identSize = 4

	// MaxPacketSize is the wire size of a full packet.
	MaxPacketSize = PacketDataSize + identSize

	// MaxFrameSize is the largest reassembled frame the builder accepts.
	MaxFrameSize = 1024 * 512
)

// FrameEnd marks the end of a frame on the wire.
var FrameEnd = []byte("11111111111")

// ErrShortPacket is returned when a packet is too small to carry an
// identifier.
var ErrShortPacket = errors.New("stream: packet too short")

// EncodePacket appends the little-endian identifier to the payload.
func EncodePacket(payload []byte, ident uint32) []byte {
	packet := make([]byte, len(payload)+identSize)
	copy(packet, payload)
	binary.LittleEndian.PutUint32(packet[len(payload):], ident)
	return packet
}

// DecodePacket splits a packet into payload and identifier.
func DecodePacket(packet []byte) (payload []byte, ident uint32, err error) {
	if len(packet) <= identSize {
		return nil, 0, ErrShortPacket
	}
	split := len(packet) - identSize
	return packet[:split], binary.LittleEndian.Uint32(packet[split:]), nil
}

// Packetize chunks one frame into wire packets. The trailing FrameEnd
// marker is included as the last packet.
func Packetize(frame []byte) [][]byte {
	var packets [][]byte
	ident := uint32(1)
	for off := 0; off < len(frame); off += PacketDataSize {
		end := off + PacketDataSize
		if end > len(frame) {
			end = len(frame)
		}
		packets = append(packets, EncodePacket(frame[off:end], ident))
		ident++
	}
	packets = append(packets, FrameEnd)
	return packets
}
