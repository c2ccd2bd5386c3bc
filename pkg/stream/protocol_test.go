package stream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"testing"
	"time"

	"github.com/user/nalshow/pkg/adapters/logger"
	"github.com/user/nalshow/pkg/h264"
	"github.com/user/nalshow/pkg/mocks"
)

func TestEncodeDecodePacket(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, PacketDataSize)
	packet := EncodePacket(payload, 7)

	if len(packet) != MaxPacketSize {
		t.Fatalf("expected packet of %d bytes, got %d", MaxPacketSize, len(packet))
	}

	got, ident, err := DecodePacket(packet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident != 7 {
		t.Errorf("expected identifier 7, got %d", ident)
	}
	if !bytes.Equal(got, payload) {
		t.Error("payload round-trip mismatch")
	}
}

func TestDecodePacket_TooShort(t *testing.T) {
	_, _, err := DecodePacket([]byte{0x01, 0x02, 0x03, 0x04})
	if !errors.Is(err, ErrShortPacket) {
		t.Errorf("expected ErrShortPacket, got %v", err)
	}
}

func TestPacketize(t *testing.T) {
	frame := bytes.Repeat([]byte{0xCC}, PacketDataSize+100)
	packets := Packetize(frame)

	// Two data packets plus the end marker.
	if len(packets) != 3 {
		t.Fatalf("expected 3 packets, got %d", len(packets))
	}
	if !bytes.Equal(packets[2], FrameEnd) {
		t.Error("expected trailing FrameEnd marker")
	}

	_, ident, err := DecodePacket(packets[0])
	if err != nil || ident != 1 {
		t.Errorf("expected first identifier 1, got %d (%v)", ident, err)
	}
	_, ident, err = DecodePacket(packets[1])
	if err != nil || ident != 2 {
		t.Errorf("expected second identifier 2, got %d (%v)", ident, err)
	}

	payload, _, _ := DecodePacket(packets[1])
	if len(payload) != 100 {
		t.Errorf("expected 100 byte tail payload, got %d", len(payload))
	}
}

func TestPacketize_Reassembly(t *testing.T) {
	frame := bytes.Repeat([]byte{0xEE}, 3*PacketDataSize+17)

	b := NewFrameBuilder()
	for _, packet := range Packetize(frame) {
		b.AddData(packet)
	}

	if !b.Finished() {
		t.Fatal("expected finished frame")
	}
	if !bytes.Equal(b.CurrentFrame(), frame) {
		t.Error("reassembled frame differs from the original")
	}
}

func TestSendReceive_Loopback(t *testing.T) {
	receiver, err := Listen(0, logger.NewNoop())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer receiver.Close()

	sender, err := Dial(fmt.Sprintf("127.0.0.1:%d", receiver.LocalPort()), 0, logger.NewNoop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sender.Close()

	frame := bytes.Repeat([]byte{0x5A}, 2*PacketDataSize+33)

	done := make(chan []byte, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		got, err := receiver.NextFrame(ctx)
		if err != nil {
			t.Errorf("receive: %v", err)
			done <- nil
			return
		}
		done <- got
	}()

	// Give the reader a moment to enter its loop.
	time.Sleep(50 * time.Millisecond)
	if err := sender.SendFrame(frame); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := <-done
	if !bytes.Equal(got, frame) {
		t.Error("received frame differs from the sent one")
	}
}

// Each sent frame carries one NAL unit without its start code, so the
// receiving side must rebuild Annex B access units before handing the
// data to a decoder.
func TestSendStream_DecodeLoopback(t *testing.T) {
	receiver, err := Listen(0, logger.NewNoop())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer receiver.Close()

	sender, err := Dial(fmt.Sprintf("127.0.0.1:%d", receiver.LocalPort()), 0, logger.NewNoop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sender.Close()

	nalUnits := [][]byte{
		{0x67, 0x64, 0x00, 0x1f}, // SPS
		{0x68, 0xee, 0x3c, 0x80}, // PPS
		{0x65, 0x88, 0x84, 0x21}, // IDR slice
	}

	decoder := &mocks.FrameDecoder{
		DecodeFrameFunc: func(data []byte) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	}

	pictures := 0
	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var au h264.AccessUnitBuilder
		for pictures == 0 {
			frame, err := receiver.NextFrame(ctx)
			if err != nil {
				done <- err
				return
			}
			unit, ready := au.Add(frame)
			if !ready {
				continue
			}
			img, err := decoder.DecodeFrame(unit)
			if err != nil {
				done <- err
				return
			}
			if img != nil {
				pictures++
				au.Reset()
			}
		}
		done <- nil
	}()

	// Give the reader a moment to enter its loop.
	time.Sleep(50 * time.Millisecond)
	if err := sender.SendStream(context.Background(), nalUnits); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("receive: %v", err)
	}

	if pictures != 1 {
		t.Fatalf("expected 1 picture, got %d", pictures)
	}
	if len(decoder.DecodeFrameCalls) != 1 {
		t.Fatalf("expected 1 decoder submission, got %d", len(decoder.DecodeFrameCalls))
	}
	unit := decoder.DecodeFrameCalls[0]
	if !h264.HasStartCode(unit) {
		t.Fatalf("submitted access unit must start with a start code, got % x", unit[:4])
	}
	nalus, err := h264.SplitAnnexB(unit)
	if err != nil {
		t.Fatalf("split submitted unit: %v", err)
	}
	if len(nalus) != len(nalUnits) {
		t.Fatalf("expected %d NAL units in the access unit, got %d", len(nalUnits), len(nalus))
	}
	for i := range nalus {
		if !bytes.Equal(nalus[i], nalUnits[i]) {
			t.Errorf("NAL unit %d: expected % x, got % x", i, nalUnits[i], nalus[i])
		}
	}
}
