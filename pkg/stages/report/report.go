// Package report implements the decode report stage.
package report

import (
	"context"

	"github.com/ideamans/go-l10n"
	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/summarizer"
)

// Stage formats the decode results as a Markdown report.
type Stage struct {
	version string
}

// NewStage creates a new report stage.
func NewStage(version string) *Stage {
	return &Stage{
		version: version,
	}
}

// Execute builds the decode summary and renders it.
func (s *Stage) Execute(ctx context.Context, input pipeline.ReportInput) (pipeline.ReportResult, error) {
	result := pipeline.ReportResult{}

	types := make([]string, len(input.Listing))
	for i, info := range input.Listing {
		types[i] = info.Type
	}

	summary := summarizer.NewBuilder().
		WithInput(input.Source, string(input.Format), input.FileSize).
		WithStream(summarizer.StreamInfo{
			NALUnitCount: len(input.Listing),
			TypeCounts:   summarizer.CountTypes(types),
		}).
		WithDecode(summarizer.DecodeInfo{
			Backend:  input.Backend,
			Pictures: len(input.Decode.Pictures),
			Failed:   input.Decode.Failed,
			Width:    input.Decode.Width,
			Height:   input.Decode.Height,
		}).
		WithElapsed(int(input.Elapsed.Milliseconds())).
		Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(s.version),
	)

	result.Markdown = []byte(formatter.Format(summary))

	return result, nil
}
