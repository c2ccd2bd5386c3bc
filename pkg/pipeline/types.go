package pipeline

import (
	"time"

	"github.com/user/nalshow/pkg/ports"
)

// InputFormat identifies the container of the input file.
type InputFormat string

const (
	// FormatAnnexB is a raw H.264 elementary stream with start codes.
	FormatAnnexB InputFormat = "annexb"
	// FormatMP4 is an ISO BMFF container with an AVC video track.
	FormatMP4 InputFormat = "mp4"
	// FormatUnknown is anything else.
	FormatUnknown InputFormat = "unknown"
)

// =============================================================================
// Probe Stage Types
// =============================================================================

// ProbeInput contains parameters for input probing.
type ProbeInput struct {
	Path string
}

// ProbeResult contains the raw input and its detected format.
type ProbeResult struct {
	Format   InputFormat
	Data     []byte
	FileSize int64
}

// =============================================================================
// Split Stage Types
// =============================================================================

// SplitInput contains the probed input to be split into NAL units.
type SplitInput struct {
	Format InputFormat
	Data   []byte
}

// NALUnitInfo describes one NAL unit for listing and debug output.
type NALUnitInfo struct {
	Index  int    `json:"index"`
	Type   string `json:"type"`
	RefIdc uint8  `json:"ref_idc"`
	Size   int    `json:"size"`
}

// SplitResult contains the extracted NAL units.
type SplitResult struct {
	NALUnits [][]byte
	Listing  []NALUnitInfo
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains the NAL units to submit to the decoder.
type DecodeInput struct {
	NALUnits [][]byte
}

// DecodeResult contains the decoded pictures.
type DecodeResult struct {
	Pictures []ports.Picture

	// Failed counts access units the decoder rejected.
	Failed int

	// Width and Height are the dimensions of the first decoded picture.
	Width  int
	Height int
}

// =============================================================================
// Report Stage Types
// =============================================================================

// ReportInput contains everything the decode report needs.
type ReportInput struct {
	Source   string
	FileSize int64
	Format   InputFormat
	Backend  string
	Listing  []NALUnitInfo
	Decode   DecodeResult
	Elapsed  time.Duration
}

// ReportResult contains the formatted decode report.
type ReportResult struct {
	Markdown []byte
}
