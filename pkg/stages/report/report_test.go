package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/user/nalshow/pkg/pipeline"
	"github.com/user/nalshow/pkg/ports"
)

func TestExecute(t *testing.T) {
	stage := NewStage("v0.1.0")

	input := pipeline.ReportInput{
		Source:   "clip.h264",
		FileSize: 2048,
		Format:   pipeline.FormatAnnexB,
		Backend:  "ffmpeg",
		Listing: []pipeline.NALUnitInfo{
			{Index: 0, Type: "SPS", RefIdc: 3, Size: 12},
			{Index: 1, Type: "PPS", RefIdc: 3, Size: 4},
			{Index: 2, Type: "IDR", RefIdc: 3, Size: 4096},
			{Index: 3, Type: "NonIDR", RefIdc: 2, Size: 1024},
		},
		Decode: pipeline.DecodeResult{
			Pictures: []ports.Picture{{Index: 0}, {Index: 1}},
			Failed:   1,
			Width:    320,
			Height:   240,
		},
		Elapsed: 125 * time.Millisecond,
	}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := string(result.Markdown)
	checks := []string{
		"clip.h264",
		"annexb",
		"ffmpeg",
		"| SPS | 1 |",
		"| IDR | 1 |",
		"Pictures: 2",
		"Failed Access Units: 1",
		"320x240",
		"125 ms",
		"v0.1.0",
	}
	for _, check := range checks {
		if !strings.Contains(md, check) {
			t.Errorf("expected report to contain %q", check)
		}
	}
}

func TestExecute_EmptyDecode(t *testing.T) {
	stage := NewStage("")

	result, err := stage.Execute(context.Background(), pipeline.ReportInput{
		Source:  "clip.h264",
		Format:  pipeline.FormatAnnexB,
		Backend: "openh264",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := string(result.Markdown)
	if !strings.Contains(md, "Pictures: 0") {
		t.Error("expected zero picture count in report")
	}
	if strings.Contains(md, "Dimensions") {
		t.Error("expected no dimensions line for empty decode")
	}
}
