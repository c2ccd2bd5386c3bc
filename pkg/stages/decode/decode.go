// Package decode implements the decoding stage.
package decode

import (
	"context"
	"fmt"

	"github.com/user/nalshow/pkg/h264"
	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/ports"
)

// Stage submits NAL units to the decoder and collects the pictures.
//
// Units are accumulated into an access unit and submitted each time a coded
// slice is appended, so parameter sets reach the decoder together with the
// first slice that needs them. The accumulator is cleared on every decoded
// picture and on every decode error.
type Stage struct {
	decoder ports.FrameDecoder
	logger  ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(decoder ports.FrameDecoder, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		logger:  logger,
	}
}

// Execute decodes all NAL units.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	if len(input.NALUnits) == 0 {
		return result, fmt.Errorf("no NAL units to decode")
	}

	if err := s.decoder.Init(); err != nil {
		return result, fmt.Errorf("initialize decoder: %w", err)
	}
	defer s.decoder.Close()

	var au h264.AccessUnitBuilder
	firstNAL := 0

	for i, nalu := range input.NALUnits {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if au.Len() == 0 {
			firstNAL = i
		}
		unit, ready := au.Add(nalu)
		if !ready {
			continue
		}

		img, err := s.decoder.DecodeFrame(unit)
		if err != nil {
			s.logger.Warn("Decoder rejected access unit %d: %s", len(result.Pictures)+result.Failed, err)
			result.Failed++
			au.Reset()
			continue
		}
		if img == nil {
			// Decoder wants more data before emitting a picture.
			continue
		}

		pic := ports.Picture{
			Image:    img,
			Index:    len(result.Pictures),
			FirstNAL: firstNAL,
			LastNAL:  i,
		}
		s.logger.Info("Picture decoded. Width: %d, Height: %d", pic.Width(), pic.Height())

		if len(result.Pictures) == 0 {
			result.Width = pic.Width()
			result.Height = pic.Height()
		}
		result.Pictures = append(result.Pictures, pic)
		au.Reset()
	}

	s.logger.Debug("Decoded %d pictures (%d failed)", len(result.Pictures), result.Failed)

	return result, nil
}
