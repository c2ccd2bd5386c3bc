// Package mp4source extracts the H.264 elementary stream from an MP4
// container using mp4ff. Samples are converted from AVCC (length-prefixed)
// to Annex B format, with SPS/PPS from the avcC box prepended at sync
// samples so the resulting stream is independently decodable.
package mp4source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
)

var (
	// ErrNoVideoTrack is returned when the container has no AVC video track.
	ErrNoVideoTrack = errors.New("mp4source: no H.264 video track found")

	// ErrNoSamples is returned when the video track contains no samples.
	ErrNoSamples = errors.New("mp4source: video track has no samples")
)

// IsMP4 sniffs the ISO BMFF magic ("ftyp" at offset 4).
func IsMP4(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp"))
}

// ExtractAnnexB demuxes the first H.264 video track of an MP4 buffer into a
// single Annex B stream.
func ExtractAnnexB(data []byte) ([]byte, error) {
	reader := bytes.NewReader(data)

	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	if mp4File.IsFragmented() {
		return extractFragmented(mp4File)
	}
	return extractProgressive(mp4File, reader)
}

func extractProgressive(mp4File *mp4.File, reader io.ReadSeeker) ([]byte, error) {
	if mp4File.Moov == nil {
		return nil, fmt.Errorf("mp4source: no moov box found")
	}

	var videoTrack *mp4.TrakBox
	var avcC *mp4.AvcCBox

	for _, trak := range mp4File.Moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			if c := avcCOf(trak); c != nil {
				videoTrack = trak
				avcC = c
				break
			}
		}
	}
	if videoTrack == nil {
		return nil, ErrNoVideoTrack
	}

	spsPPS := parameterSets(avcC)

	if videoTrack.Mdia == nil || videoTrack.Mdia.Minf == nil || videoTrack.Mdia.Minf.Stbl == nil {
		return nil, fmt.Errorf("mp4source: no sample table found")
	}
	stbl := videoTrack.Mdia.Minf.Stbl

	if stbl.Stsz == nil {
		return nil, fmt.Errorf("mp4source: no stsz box found")
	}
	sampleCount := stbl.Stsz.SampleNumber
	if sampleCount == 0 {
		return nil, ErrNoSamples
	}

	// Build sync sample set (keyframes)
	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, sampleNr := range stbl.Stss.SampleNumber {
			syncSamples[sampleNr] = true
		}
	}

	var stream []byte
	for sampleNr := uint32(1); sampleNr <= sampleCount; sampleNr++ {
		sample, err := sampleData(stbl, reader, sampleNr)
		if err != nil {
			continue // Skip samples that can't be read
		}

		if syncSamples[sampleNr] || len(syncSamples) == 0 || sampleNr == 1 {
			stream = append(stream, spsPPS...)
		}
		stream = append(stream, avccToAnnexB(sample)...)
	}

	if len(stream) == 0 {
		return nil, ErrNoSamples
	}
	return stream, nil
}

func extractFragmented(mp4File *mp4.File) ([]byte, error) {
	var videoTrackID uint32
	var trex *mp4.TrexBox
	var avcC *mp4.AvcCBox

	if mp4File.Init != nil && mp4File.Init.Moov != nil {
		for _, trak := range mp4File.Init.Moov.Traks {
			if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
				if c := avcCOf(trak); c != nil {
					videoTrackID = trak.Tkhd.TrackID
					avcC = c
					break
				}
			}
		}
		if mp4File.Init.Moov.Mvex != nil {
			for _, t := range mp4File.Init.Moov.Mvex.Trexs {
				if t.TrackID == videoTrackID {
					trex = t
					break
				}
			}
		}
	}
	if videoTrackID == 0 {
		return nil, ErrNoVideoTrack
	}

	spsPPS := parameterSets(avcC)

	var stream []byte
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}

			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != videoTrackID {
					continue
				}

				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return nil, fmt.Errorf("get samples: %w", err)
				}

				for i, sample := range samples {
					if sample.Flags == mp4.SyncSampleFlags || (i == 0 && len(stream) == 0) {
						stream = append(stream, spsPPS...)
					}
					stream = append(stream, avccToAnnexB(sample.Data)...)
				}
			}
		}
	}

	if len(stream) == 0 {
		return nil, ErrNoSamples
	}
	return stream, nil
}

// avcCOf returns the avcC box of a track, or nil for non-AVC tracks.
func avcCOf(trak *mp4.TrakBox) *mp4.AvcCBox {
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil ||
		trak.Mdia.Minf.Stbl.Stsd == nil {
		return nil
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if avc1, ok := child.(*mp4.VisualSampleEntryBox); ok && avc1.AvcC != nil {
			return avc1.AvcC
		}
	}
	return nil
}

// parameterSets renders SPS and PPS NAL units from avcC in Annex B format.
func parameterSets(avcC *mp4.AvcCBox) []byte {
	var out []byte
	if avcC == nil {
		return nil
	}
	for _, sps := range avcC.SPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, sps...)
	}
	for _, pps := range avcC.PPSnalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, pps...)
	}
	return out
}

// sampleData reads one sample from a progressive MP4 file.
func sampleData(stbl *mp4.StblBox, reader io.ReadSeeker, sampleNr uint32) ([]byte, error) {
	if stbl.Stsc == nil || stbl.Stsz == nil {
		return nil, fmt.Errorf("missing stsc or stsz box")
	}

	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return nil, fmt.Errorf("get chunk nr: %w", err)
	}

	var chunkOffset uint64
	switch {
	case stbl.Stco != nil:
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("get chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk nr out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return nil, fmt.Errorf("no stco or co64 box")
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	sampleSize := stbl.Stsz.GetSampleSize(int(sampleNr))

	if _, err := reader.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to sample: %w", err)
	}

	data := make([]byte, sampleSize)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return data, nil
}

// avccToAnnexB converts AVCC format (length-prefixed NALUs) to Annex B format
// (start code prefixed). The length prefix is always 4 bytes here: mp4ff
// rejects avcC boxes declaring any other NALU length size while decoding
// the file.
func avccToAnnexB(data []byte) []byte {
	var result []byte
	offset := 0

	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4

		if naluLen <= 0 || offset+naluLen > len(data) {
			break
		}

		result = append(result, 0, 0, 0, 1)
		result = append(result, data[offset:offset+naluLen]...)
		offset += naluLen
	}

	return result
}
