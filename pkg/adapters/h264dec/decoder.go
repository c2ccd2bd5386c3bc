// Package h264dec provides H.264 decoding through an external decoder.
// Two backends are supported:
//   - openh264: the Cisco OpenH264 library via cgo (build with -tags openh264)
//   - ffmpeg: an external ffmpeg process
package h264dec

import (
	"errors"
	"image"

	"github.com/user/nalshow/pkg/ports"
)

var (
	// ErrNotInitialized is returned when decoder methods are called before
	// initialization or after Close.
	ErrNotInitialized = errors.New("h264dec: decoder not initialized")

	// ErrDecodeFailed is returned when decoding an access unit fails.
	ErrDecodeFailed = errors.New("h264dec: decode failed")

	// ErrFFmpegNotFound is returned when ffmpeg is not found in PATH.
	ErrFFmpegNotFound = errors.New("h264dec: ffmpeg not found in PATH")

	// ErrNoBackend is returned when no decoder backend is usable.
	ErrNoBackend = errors.New("h264dec: no decoder backend available")
)

// Backend identifies the decoding backend.
type Backend string

const (
	// BackendAuto selects openh264 when compiled in, then ffmpeg.
	BackendAuto Backend = "auto"
	// BackendOpenH264 is the Cisco OpenH264 library via cgo.
	BackendOpenH264 Backend = "openh264"
	// BackendFFmpeg is an external ffmpeg process.
	BackendFFmpeg Backend = "ffmpeg"
)

// Options configures decoder creation.
type Options struct {
	// Backend forces a specific backend. Default is BackendAuto.
	Backend Backend

	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

// backendDecoder is implemented by backend-specific code.
type backendDecoder interface {
	init() error
	decodeFrame(data []byte) (image.Image, error)
	close()
}

// Decoder decodes H.264 access units using the selected backend.
type Decoder struct {
	opts    Options
	impl    backendDecoder
	backend Backend
}

// New creates a new H.264 decoder. The backend is acquired by Init.
func New(opts Options) *Decoder {
	if opts.Backend == "" {
		opts.Backend = BackendAuto
	}
	return &Decoder{opts: opts}
}

// Init acquires the decoder resource. Calling Init on an already
// initialized decoder is a no-op.
func (d *Decoder) Init() error {
	if d.impl != nil {
		return nil
	}
	switch d.opts.Backend {
	case BackendOpenH264:
		return d.initOpenH264()
	case BackendFFmpeg:
		return d.initFFmpeg()
	default:
		if openH264Compiled {
			if err := d.initOpenH264(); err == nil {
				return nil
			}
		}
		if err := d.initFFmpeg(); err != nil {
			return errors.Join(ErrNoBackend, err)
		}
		return nil
	}
}

func (d *Decoder) initOpenH264() error {
	impl := newOpenH264Decoder()
	if err := impl.init(); err != nil {
		return err
	}
	d.impl = impl
	d.backend = BackendOpenH264
	return nil
}

func (d *Decoder) initFFmpeg() error {
	impl := &ffmpegDecoder{customPath: d.opts.FFmpegPath}
	if err := impl.init(); err != nil {
		return err
	}
	d.impl = impl
	d.backend = BackendFFmpeg
	return nil
}

// DecodeFrame submits a single access unit in Annex B format.
// It returns (nil, nil) when the decoder needs more data.
func (d *Decoder) DecodeFrame(data []byte) (image.Image, error) {
	if d.impl == nil {
		return nil, ErrNotInitialized
	}
	return d.impl.decodeFrame(data)
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	if d.impl != nil {
		d.impl.close()
		d.impl = nil
	}
}

// Backend returns the backend selected by Init, or "" before Init.
func (d *Decoder) Backend() Backend {
	return d.backend
}

// IsAvailable reports whether any backend can be used on this system.
func IsAvailable() bool {
	if openH264Compiled {
		return true
	}
	_, err := findFFmpeg("")
	return err == nil
}

// Ensure Decoder implements ports.FrameDecoder
var _ ports.FrameDecoder = (*Decoder)(nil)
