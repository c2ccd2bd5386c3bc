package h264

import (
	"errors"
	"fmt"
)

const (
	// MaxNALUSize is the maximum accepted size of a single NAL unit.
	// With a 250 Mbps H264 video, the maximum NALU size is 2.2MB.
	MaxNALUSize = 3 * 1024 * 1024

	// MaxNALUsPerStream is the maximum number of NAL units accepted in a
	// single input buffer.
	MaxNALUsPerStream = 16384
)

var (
	// ErrNoStartCode is returned when the input contains no Annex B
	// start code.
	ErrNoStartCode = errors.New("h264: no Annex B start code found")

	// ErrLeadingGarbage is returned when data precedes the first start code.
	ErrLeadingGarbage = errors.New("h264: data before first start code")

	// ErrEmptyNALU is returned when two start codes are adjacent.
	ErrEmptyNALU = errors.New("h264: empty NAL unit")
)

// findStartCode returns the index of the first byte of the next start code
// at or after from, and the index of the first payload byte after it.
// Both 3-byte (001) and 4-byte (0001) codes are recognized.
// It returns (-1, -1) when no start code remains.
func findStartCode(buf []byte, from int) (start, payload int) {
	for i := from; i+2 < len(buf); i++ {
		if buf[i] == 0x00 && buf[i+1] == 0x00 && buf[i+2] == 0x01 {
			start = i
			if i > from && buf[i-1] == 0x00 {
				start = i - 1
			}
			return start, i + 3
		}
	}
	return -1, -1
}

// SplitAnnexB decodes NAL units from an Annex B stream buffer.
//
// The buffer must begin with a start code. Trailing zero bytes after the
// last NAL unit are tolerated.
func SplitAnnexB(buf []byte) ([][]byte, error) {
	if len(buf) == 0 {
		return nil, ErrNoStartCode
	}

	start, payload := findStartCode(buf, 0)
	if start < 0 {
		return nil, ErrNoStartCode
	}
	if start != 0 {
		return nil, fmt.Errorf("%w (offset %d)", ErrLeadingGarbage, start)
	}

	var nalus [][]byte
	for {
		next, nextPayload := findStartCode(buf, payload)

		var nalu []byte
		if next < 0 {
			nalu = trimTrailingZeros(buf[payload:])
		} else {
			nalu = buf[payload:next]
		}

		if len(nalu) == 0 {
			return nil, ErrEmptyNALU
		}
		if len(nalu) > MaxNALUSize {
			return nil, fmt.Errorf("h264: NAL unit size (%d) exceeds maximum (%d)",
				len(nalu), MaxNALUSize)
		}
		nalus = append(nalus, nalu)
		if len(nalus) > MaxNALUsPerStream {
			return nil, fmt.Errorf("h264: NAL unit count exceeds maximum (%d)",
				MaxNALUsPerStream)
		}

		if next < 0 {
			return nalus, nil
		}
		payload = nextPayload
	}
}

// JoinAnnexB encodes NAL units into the Annex B stream format with 4-byte
// start codes.
func JoinAnnexB(nalus [][]byte) []byte {
	size := 0
	for _, nalu := range nalus {
		size += 4 + len(nalu)
	}

	buf := make([]byte, size)
	pos := 0
	for _, nalu := range nalus {
		pos += copy(buf[pos:], []byte{0x00, 0x00, 0x00, 0x01})
		pos += copy(buf[pos:], nalu)
	}
	return buf
}

// trimTrailingZeros strips trailing_zero_8bits after the last NAL unit.
func trimTrailingZeros(nalu []byte) []byte {
	end := len(nalu)
	for end > 0 && nalu[end-1] == 0x00 {
		end--
	}
	return nalu[:end]
}

// HasStartCode reports whether buf begins with a 3- or 4-byte start code.
func HasStartCode(buf []byte) bool {
	if len(buf) >= 3 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0x01 {
		return true
	}
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0x00 && buf[3] == 0x01
}
