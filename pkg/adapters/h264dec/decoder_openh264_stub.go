//go:build !openh264
// +build !openh264

package h264dec

import (
	"errors"
	"image"
)

const openH264Compiled = false

var errOpenH264NotCompiled = errors.New("openh264 support not compiled in (build with -tags openh264)")

type openH264Stub struct{}

func newOpenH264Decoder() backendDecoder {
	return &openH264Stub{}
}

func (s *openH264Stub) init() error {
	return errOpenH264NotCompiled
}

func (s *openH264Stub) decodeFrame(data []byte) (image.Image, error) {
	return nil, errOpenH264NotCompiled
}

func (s *openH264Stub) close() {}
