package ports

import (
	"image"
)

// FrameDecoder abstracts the external H.264 decoder.
//
// The handle it wraps must be initialized with Init before the first
// DecodeFrame call and released with Close exactly once afterwards.
type FrameDecoder interface {
	// Init acquires the underlying decoder resource.
	Init() error

	// DecodeFrame submits one access unit in Annex B format.
	// It returns the decoded picture, or (nil, nil) when the decoder
	// needs more data before it can emit a picture.
	DecodeFrame(data []byte) (image.Image, error)

	// Close releases the decoder resource.
	Close()
}

// Picture is a decoded picture together with its position in the stream.
type Picture struct {
	Image image.Image

	// Index is the zero-based picture number in decode order.
	Index int

	// FirstNAL and LastNAL delimit the NAL unit range (inclusive,
	// zero-based) that was submitted to produce this picture.
	FirstNAL int
	LastNAL  int
}

// Width returns the picture width in pixels.
func (p Picture) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the picture height in pixels.
func (p Picture) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}
