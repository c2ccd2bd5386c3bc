// Package mocks provides mock implementations of the port interfaces
// for testing.
package mocks

import (
	"image"

	"github.com/user/nalshow/pkg/ports"
)

// FrameDecoder is a mock implementation of ports.FrameDecoder.
type FrameDecoder struct {
	InitFunc        func() error
	DecodeFrameFunc func(data []byte) (image.Image, error)
	CloseFunc       func()

	// Recorded calls for verification
	InitCalled       bool
	DecodeFrameCalls [][]byte
	CloseCalled      bool
}

func (m *FrameDecoder) Init() error {
	m.InitCalled = true
	if m.InitFunc != nil {
		return m.InitFunc()
	}
	return nil
}

func (m *FrameDecoder) DecodeFrame(data []byte) (image.Image, error) {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.DecodeFrameCalls = append(m.DecodeFrameCalls, cp)
	if m.DecodeFrameFunc != nil {
		return m.DecodeFrameFunc(data)
	}
	return nil, nil
}

func (m *FrameDecoder) Close() {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		m.CloseFunc()
	}
}

var _ ports.FrameDecoder = (*FrameDecoder)(nil)
