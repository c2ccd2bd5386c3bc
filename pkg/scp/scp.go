// Package scp implements the session control protocol used to negotiate
// stream sessions between peers.
//
// A message on the wire is the fixed header line, one command byte, the
// body, and the end marker:
//
//	12345654321\n <command> <body...> 1234564321\n
package scp

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// Header opens every message.
	Header = []byte("12345654321\n")
	// End closes every message.
	End = []byte("1234564321\n")
)

// Command identifies the purpose of a message.
type Command uint8

const (
	CommandStart Command = iota

	CommandReqGenerateKey
	CommandAckGenerateKey
	CommandKeyShare

	CommandSimpleMessage

	CommandVideoStreamConnect
	CommandAudioStreamConnect

	CommandVideoStreamStop
	CommandAudioStreamStop

	CommandEnd

	commandCount
)

// String returns the name of the command.
func (c Command) String() string {
	switch c {
	case CommandStart:
		return "Start"
	case CommandReqGenerateKey:
		return "ReqGenerateKey"
	case CommandAckGenerateKey:
		return "AckGenerateKey"
	case CommandKeyShare:
		return "KeyShare"
	case CommandSimpleMessage:
		return "SimpleMessage"
	case CommandVideoStreamConnect:
		return "VideoStreamConnect"
	case CommandAudioStreamConnect:
		return "AudioStreamConnect"
	case CommandVideoStreamStop:
		return "VideoStreamStop"
	case CommandAudioStreamStop:
		return "AudioStreamStop"
	case CommandEnd:
		return "End"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Valid reports whether the command byte is a known command.
func (c Command) Valid() bool {
	return c < commandCount
}

// Parse errors.
var (
	ErrBadHeader  = errors.New("scp: message does not start with the header")
	ErrBadCommand = errors.New("scp: unknown command byte")
	ErrMissingEnd = errors.New("scp: message does not end with the end marker")
)

// Message is one control message.
type Message struct {
	Command Command
	Body    []byte
}

// Marshal encodes the message to its wire form.
func (m Message) Marshal() []byte {
	buf := make([]byte, 0, len(Header)+1+len(m.Body)+len(End))
	buf = append(buf, Header...)
	buf = append(buf, byte(m.Command))
	buf = append(buf, m.Body...)
	buf = append(buf, End...)
	return buf
}

// Unmarshal decodes one message from its wire form.
func Unmarshal(raw []byte) (Message, error) {
	if !bytes.HasPrefix(raw, Header) {
		return Message{}, ErrBadHeader
	}
	if !bytes.HasSuffix(raw, End) {
		return Message{}, ErrMissingEnd
	}

	inner := raw[len(Header) : len(raw)-len(End)]
	if len(inner) == 0 {
		return Message{}, ErrBadCommand
	}

	cmd := Command(inner[0])
	if !cmd.Valid() {
		return Message{}, fmt.Errorf("%w: %d", ErrBadCommand, inner[0])
	}

	msg := Message{Command: cmd}
	if len(inner) > 1 {
		msg.Body = inner[1:]
	}
	return msg, nil
}
