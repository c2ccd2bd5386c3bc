// Package h264 locates NAL unit boundaries in H.264 Annex B elementary
// streams and classifies NAL unit headers. It does not parse the bitstream
// beyond the one-byte header; decoding is the external decoder's job.
package h264

import (
	"fmt"
)

// NALUType is the nal_unit_type field of a NAL unit header.
type NALUType uint8

// NAL unit types, ISO/IEC 14496-10 table 7-1.
const (
	NALUTypeNonIDR                NALUType = 1
	NALUTypeDataPartitionA        NALUType = 2
	NALUTypeDataPartitionB        NALUType = 3
	NALUTypeDataPartitionC        NALUType = 4
	NALUTypeIDR                   NALUType = 5
	NALUTypeSEI                   NALUType = 6
	NALUTypeSPS                   NALUType = 7
	NALUTypePPS                   NALUType = 8
	NALUTypeAccessUnitDelimiter   NALUType = 9
	NALUTypeEndOfSequence         NALUType = 10
	NALUTypeEndOfStream           NALUType = 11
	NALUTypeFillerData            NALUType = 12
	NALUTypeSPSExtension          NALUType = 13
	NALUTypePrefix                NALUType = 14
	NALUTypeSubsetSPS             NALUType = 15
	NALUTypeReserved16            NALUType = 16
	NALUTypeReserved17            NALUType = 17
	NALUTypeReserved18            NALUType = 18
	NALUTypeSliceLayerWithoutPart NALUType = 19
	NALUTypeSliceExtension        NALUType = 20
	NALUTypeSliceExtensionDepth   NALUType = 21
)

// String returns the name of the NAL unit type.
func (t NALUType) String() string {
	switch t {
	case NALUTypeNonIDR:
		return "NonIDR"
	case NALUTypeDataPartitionA:
		return "DataPartitionA"
	case NALUTypeDataPartitionB:
		return "DataPartitionB"
	case NALUTypeDataPartitionC:
		return "DataPartitionC"
	case NALUTypeIDR:
		return "IDR"
	case NALUTypeSEI:
		return "SEI"
	case NALUTypeSPS:
		return "SPS"
	case NALUTypePPS:
		return "PPS"
	case NALUTypeAccessUnitDelimiter:
		return "AccessUnitDelimiter"
	case NALUTypeEndOfSequence:
		return "EndOfSequence"
	case NALUTypeEndOfStream:
		return "EndOfStream"
	case NALUTypeFillerData:
		return "FillerData"
	case NALUTypeSPSExtension:
		return "SPSExtension"
	case NALUTypePrefix:
		return "Prefix"
	case NALUTypeSubsetSPS:
		return "SubsetSPS"
	case NALUTypeSliceLayerWithoutPart:
		return "SliceLayerWithoutPartitioning"
	case NALUTypeSliceExtension:
		return "SliceExtension"
	case NALUTypeSliceExtensionDepth:
		return "SliceExtensionDepth"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// IsVCL returns true if the type carries coded slice data.
func (t NALUType) IsVCL() bool {
	return t >= NALUTypeNonIDR && t <= NALUTypeIDR
}

// Header is the decoded one-byte NAL unit header.
type Header struct {
	ForbiddenZeroBit bool
	RefIdc           uint8
	Type             NALUType
}

// ParseHeader decodes the first byte of a NAL unit.
func ParseHeader(b byte) Header {
	return Header{
		ForbiddenZeroBit: b>>7 != 0,
		RefIdc:           (b >> 5) & 0x3,
		Type:             NALUType(b & 0x1f),
	}
}

// TypeOf returns the type of a NAL unit, or 0 if the unit is empty.
func TypeOf(nalu []byte) NALUType {
	if len(nalu) == 0 {
		return 0
	}
	return NALUType(nalu[0] & 0x1f)
}
