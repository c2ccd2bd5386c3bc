package split

import (
	"context"
	"testing"

	"github.com/user/nalshow/pkg/adapters/logger"
	"github.com/user/nalshow/pkg/pipeline"
)

func TestExecute_AnnexB(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x0a, // SPS
		0x00, 0x00, 0x00, 0x01, 0x68, 0xce, 0x38, 0x80, // PPS
		0x00, 0x00, 0x01, 0x65, 0x88, 0x84, 0x00, // IDR, 3-byte code
	}

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.SplitInput{
		Format: pipeline.FormatAnnexB,
		Data:   data,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.NALUnits) != 3 {
		t.Fatalf("expected 3 NAL units, got %d", len(result.NALUnits))
	}
	if len(result.Listing) != 3 {
		t.Fatalf("expected 3 listing entries, got %d", len(result.Listing))
	}

	wantTypes := []string{"SPS", "PPS", "IDR"}
	for i, want := range wantTypes {
		if result.Listing[i].Type != want {
			t.Errorf("listing[%d].Type = %q, want %q", i, result.Listing[i].Type, want)
		}
		if result.Listing[i].Index != i {
			t.Errorf("listing[%d].Index = %d, want %d", i, result.Listing[i].Index, i)
		}
	}

	// Trailing zero after the IDR payload must be stripped.
	if got := len(result.NALUnits[2]); got != 3 {
		t.Errorf("expected IDR payload of 3 bytes, got %d", got)
	}
}

func TestExecute_RefIdc(t *testing.T) {
	// 0x67 = ref_idc 3, type 7 (SPS). 0x01 = ref_idc 0, type 1.
	data := []byte{
		0x00, 0x00, 0x00, 0x01, 0x67, 0x42,
		0x00, 0x00, 0x00, 0x01, 0x01, 0x9a,
	}

	stage := NewStage(logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.SplitInput{
		Format: pipeline.FormatAnnexB,
		Data:   data,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Listing[0].RefIdc != 3 {
		t.Errorf("expected ref_idc 3 for SPS, got %d", result.Listing[0].RefIdc)
	}
	if result.Listing[1].RefIdc != 0 {
		t.Errorf("expected ref_idc 0, got %d", result.Listing[1].RefIdc)
	}
}

func TestExecute_NoStartCode(t *testing.T) {
	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(context.Background(), pipeline.SplitInput{
		Format: pipeline.FormatAnnexB,
		Data:   []byte{0x65, 0x88, 0x84},
	})
	if err == nil {
		t.Fatal("expected error for data without start code")
	}
}

func TestExecute_UnknownFormat(t *testing.T) {
	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(context.Background(), pipeline.SplitInput{
		Format: pipeline.FormatUnknown,
		Data:   []byte("whatever"),
	})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestExecute_InvalidMP4(t *testing.T) {
	stage := NewStage(logger.NewNoop())
	_, err := stage.Execute(context.Background(), pipeline.SplitInput{
		Format: pipeline.FormatMP4,
		Data:   []byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p'},
	})
	if err == nil {
		t.Fatal("expected error for truncated MP4")
	}
}
