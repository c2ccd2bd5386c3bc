// Package split implements the NAL unit extraction stage.
package split

import (
	"context"
	"fmt"

	"github.com/user/nalshow/pkg/adapters/mp4source"
	"github.com/user/nalshow/pkg/h264"
	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/ports"
)

// Stage extracts the individual NAL units from the probed input.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new split stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("split"),
	}
}

// Execute splits the input into NAL units and builds the listing.
func (s *Stage) Execute(ctx context.Context, input pipeline.SplitInput) (pipeline.SplitResult, error) {
	result := pipeline.SplitResult{}

	data := input.Data
	switch input.Format {
	case pipeline.FormatAnnexB:
		// Already an elementary stream.
	case pipeline.FormatMP4:
		es, err := mp4source.ExtractAnnexB(data)
		if err != nil {
			return result, fmt.Errorf("extract video track: %w", err)
		}
		s.logger.Debug("Extracted %d bytes of elementary stream from MP4", len(es))
		data = es
	default:
		return result, fmt.Errorf("unsupported input format %q", input.Format)
	}

	nalus, err := h264.SplitAnnexB(data)
	if err != nil {
		return result, fmt.Errorf("split NAL units: %w", err)
	}

	listing := make([]pipeline.NALUnitInfo, len(nalus))
	for i, nalu := range nalus {
		header := h264.ParseHeader(nalu[0])
		listing[i] = pipeline.NALUnitInfo{
			Index:  i,
			Type:   header.Type.String(),
			RefIdc: header.RefIdc,
			Size:   len(nalu),
		}
		s.logger.Debug("NAL %4d: %-28s ref_idc=%d size=%d", i, header.Type, header.RefIdc, len(nalu))
	}

	result.NALUnits = nalus
	result.Listing = listing

	return result, nil
}
