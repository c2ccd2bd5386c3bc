package filesink

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/user/nalshow/pkg/mocks"
	"github.com/user/nalshow/pkg/ports"
)

func testPicture(index, first, last int) ports.Picture {
	return ports.Picture{
		Image:    image.NewRGBA(image.Rect(0, 0, 64, 48)),
		Index:    index,
		FirstNAL: first,
		LastNAL:  last,
	}
}

func TestSink_SavesDebugOutputs(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New("out", fs, &mocks.Renderer{}, Options{})

	if !sink.Enabled() {
		t.Error("Enabled() should return true")
	}

	if err := sink.SaveProbeJSON([]byte(`{"format":"annexb"}`)); err != nil {
		t.Fatalf("SaveProbeJSON failed: %v", err)
	}
	if err := sink.SaveNALUnitsJSON([]byte(`[]`)); err != nil {
		t.Fatalf("SaveNALUnitsJSON failed: %v", err)
	}
	if err := sink.SaveReport([]byte("# Decode Summary")); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	for _, path := range []string{
		filepath.Join("out", "probe.json"),
		filepath.Join("out", "nalunits.json"),
		filepath.Join("out", "report.md"),
	} {
		if _, ok := fs.GetFile(path); !ok {
			t.Errorf("expected %s to be written", path)
		}
	}
}

func TestSink_SavePicture(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New("out", fs, renderer, Options{})

	if err := sink.SavePicture(testPicture(3, 5, 7)); err != nil {
		t.Fatalf("SavePicture failed: %v", err)
	}

	path := filepath.Join("out", "pictures", "picture-0003.png")
	data, ok := fs.GetFile(path)
	if !ok {
		t.Fatalf("expected %s to be written", path)
	}
	if string(data) != "encoded" {
		t.Errorf("expected encoded data, got %q", data)
	}
	if renderer.EncodeImageCalls != 1 {
		t.Errorf("expected 1 encode call, got %d", renderer.EncodeImageCalls)
	}
	if renderer.ResizeImageCalls != 0 {
		t.Errorf("expected no resize calls, got %d", renderer.ResizeImageCalls)
	}
}

func TestSink_SavePicture_Scaled(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New("out", fs, renderer, Options{ScaleWidth: 320, ScaleHeight: 240})

	if err := sink.SavePicture(testPicture(0, 0, 2)); err != nil {
		t.Fatalf("SavePicture failed: %v", err)
	}
	if renderer.ResizeImageCalls != 1 {
		t.Errorf("expected 1 resize call, got %d", renderer.ResizeImageCalls)
	}
}

func TestSink_SavePicture_Annotated(t *testing.T) {
	fs := mocks.NewFileSystem()
	canvas := &mocks.Canvas{}
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			return canvas
		},
	}
	sink := New("out", fs, renderer, Options{Annotate: true})

	if err := sink.SavePicture(testPicture(1, 2, 4)); err != nil {
		t.Fatalf("SavePicture failed: %v", err)
	}

	if canvas.DrawnImgs != 1 {
		t.Errorf("expected the picture to be drawn onto the canvas, got %d draws", canvas.DrawnImgs)
	}
	if canvas.DrawnRects != 1 {
		t.Errorf("expected a label background rect, got %d", canvas.DrawnRects)
	}
	if len(canvas.DrawnTexts) != 1 || canvas.DrawnTexts[0] != "#0001 NAL 2-4" {
		t.Errorf("unexpected label texts: %v", canvas.DrawnTexts)
	}
}

func TestPictureLabel(t *testing.T) {
	got := pictureLabel(testPicture(12, 30, 33))
	if got != "#0012 NAL 30-33" {
		t.Errorf("unexpected label: %q", got)
	}
}
