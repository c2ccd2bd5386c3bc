package ggrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/nalshow/pkg/ports"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestEncodeImage_PNG(t *testing.T) {
	r := New()

	data, err := r.EncodeImage(testImage(16, 12), ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("unexpected dimensions: %dx%d", b.Dx(), b.Dy())
	}
}

func TestEncodeImage_JPEG(t *testing.T) {
	r := New()

	data, err := r.EncodeImage(testImage(16, 12), ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
}

func TestEncodeImage_UnsupportedFormat(t *testing.T) {
	r := New()

	if _, err := r.EncodeImage(testImage(4, 4), ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestResizeImage(t *testing.T) {
	r := New()

	resized := r.ResizeImage(testImage(64, 48), 32, 24)
	if b := resized.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("unexpected dimensions: %dx%d", b.Dx(), b.Dy())
	}
}

func TestCanvas_Draw(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 50, color.Black)
	canvas.DrawImage(testImage(40, 30), 0, 0)
	canvas.DrawRect(0, 0, 60, 20, color.RGBA{A: 180})

	style := ports.TextStyle{FontSize: 13, Color: color.White}
	w, h := canvas.MeasureText("#0001 NAL 0-2", style)
	if w <= 0 || h <= 0 {
		t.Errorf("unexpected text metrics: %f x %f", w, h)
	}
	canvas.DrawText("#0001 NAL 0-2", 6, 10, style)

	img := canvas.ToImage()
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("unexpected canvas size: %dx%d", b.Dx(), b.Dy())
	}
}
