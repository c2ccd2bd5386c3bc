package scp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/user/nalshow/pkg/adapters/logger"
)

func TestMarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"start without body", Message{Command: CommandStart}},
		{"simple message", Message{Command: CommandSimpleMessage, Body: []byte("hello")}},
		{"video connect with port", Message{Command: CommandVideoStreamConnect, Body: []byte("9000")}},
		{"end", Message{Command: CommandEnd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.msg.Marshal()

			if !bytes.HasPrefix(raw, Header) {
				t.Error("expected marshaled message to start with the header")
			}
			if !bytes.HasSuffix(raw, End) {
				t.Error("expected marshaled message to end with the end marker")
			}

			got, err := Unmarshal(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Command != tt.msg.Command {
				t.Errorf("command = %v, want %v", got.Command, tt.msg.Command)
			}
			if !bytes.Equal(got.Body, tt.msg.Body) {
				t.Errorf("body = %q, want %q", got.Body, tt.msg.Body)
			}
		})
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"bad header", []byte("hello\n"), ErrBadHeader},
		{"missing end", append(append([]byte{}, Header...), byte(CommandStart)), ErrMissingEnd},
		{"no command byte", append(append([]byte{}, Header...), End...), ErrBadCommand},
		{"unknown command", Message{Command: Command(200)}.Marshal(), ErrBadCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	if CommandVideoStreamConnect.String() != "VideoStreamConnect" {
		t.Errorf("unexpected name %q", CommandVideoStreamConnect)
	}
	if Command(200).Valid() {
		t.Error("expected command 200 to be invalid")
	}
}

func TestReadMessage(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Message{Command: CommandSimpleMessage, Body: []byte("one")}.Marshal())
	buf.Write(Message{Command: CommandEnd}.Marshal())

	r := bufio.NewReader(&buf)

	first, err := ReadMessage(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Command != CommandSimpleMessage || string(first.Body) != "one" {
		t.Errorf("unexpected first message: %+v", first)
	}

	second, err := ReadMessage(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Command != CommandEnd {
		t.Errorf("unexpected second message: %+v", second)
	}
}

func TestServer_RequestReply(t *testing.T) {
	handler := func(msg Message) *Message {
		if msg.Command == CommandVideoStreamConnect {
			return &Message{Command: CommandAckGenerateKey, Body: []byte("ok")}
		}
		return nil
	}

	server, err := NewServer(0, handler, logger.NewNoop())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go server.Serve(ctx)

	addr := fmt.Sprintf("127.0.0.1:%d", server.LocalPort())
	reply, err := Send(addr, Message{Command: CommandVideoStreamConnect, Body: []byte("9000")}, true)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply == nil || reply.Command != CommandAckGenerateKey {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if string(reply.Body) != "ok" {
		t.Errorf("unexpected reply body %q", reply.Body)
	}
}
