package h264dec

import (
	"errors"
	"testing"
)

func TestNewDefaultsToAutoBackend(t *testing.T) {
	d := New(Options{})
	if d.opts.Backend != BackendAuto {
		t.Errorf("expected backend %q, got %q", BackendAuto, d.opts.Backend)
	}
}

func TestDecodeFrameBeforeInit(t *testing.T) {
	d := New(Options{})
	_, err := d.DecodeFrame([]byte{0x00, 0x00, 0x00, 0x01, 0x65})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestCloseBeforeInit(t *testing.T) {
	d := New(Options{})
	// Must not panic.
	d.Close()
	d.Close()

	if d.Backend() != "" {
		t.Errorf("expected empty backend before Init, got %q", d.Backend())
	}
}

func TestFindFFmpegCustomPathNotFound(t *testing.T) {
	_, err := findFFmpeg("/nonexistent/path/to/ffmpeg")
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFFmpegDecoderNotInitialized(t *testing.T) {
	d := &ffmpegDecoder{}
	_, err := d.decodeFrame([]byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x88})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestContainsVCL(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{
			name: "idr slice",
			data: []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x88, 0x84},
			want: true,
		},
		{
			name: "sps and pps only",
			data: []byte{
				0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x0a,
				0x00, 0x00, 0x00, 0x01, 0x68, 0xce, 0x38, 0x80,
			},
			want: false,
		},
		{
			name: "sps then non-idr slice",
			data: []byte{
				0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x0a,
				0x00, 0x00, 0x00, 0x01, 0x41, 0x9a, 0x21,
			},
			want: true,
		},
		{
			name: "no start code",
			data: []byte{0x65, 0x88, 0x84},
			want: false,
		},
		{
			name: "empty",
			data: nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsVCL(tt.data); got != tt.want {
				t.Errorf("containsVCL() = %v, want %v", got, tt.want)
			}
		})
	}
}
