// Package probe implements the input probing stage.
package probe

import (
	"context"
	"fmt"

	"github.com/user/nalshow/pkg/adapters/mp4source"
	"github.com/user/nalshow/pkg/h264"
	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/ports"
)

// Stage reads the input file and detects its container format.
type Stage struct {
	fs ports.FileSystem
}

// NewStage creates a new probe stage.
func NewStage(fs ports.FileSystem) *Stage {
	return &Stage{
		fs: fs,
	}
}

// Execute reads the input file and sniffs its format.
func (s *Stage) Execute(ctx context.Context, input pipeline.ProbeInput) (pipeline.ProbeResult, error) {
	result := pipeline.ProbeResult{}

	if input.Path == "" {
		return result, fmt.Errorf("no input path given")
	}

	exists, err := s.fs.Exists(input.Path)
	if err != nil {
		return result, fmt.Errorf("stat input %s: %w", input.Path, err)
	}
	if !exists {
		return result, fmt.Errorf("input %s does not exist", input.Path)
	}

	data, err := s.fs.ReadFile(input.Path)
	if err != nil {
		return result, fmt.Errorf("read input %s: %w", input.Path, err)
	}
	if len(data) == 0 {
		return result, fmt.Errorf("input %s is empty", input.Path)
	}

	result.Data = data
	result.FileSize = int64(len(data))
	result.Format = detectFormat(data)

	return result, nil
}

func detectFormat(data []byte) pipeline.InputFormat {
	switch {
	case mp4source.IsMP4(data):
		return pipeline.FormatMP4
	case h264.HasStartCode(data):
		return pipeline.FormatAnnexB
	default:
		return pipeline.FormatUnknown
	}
}
