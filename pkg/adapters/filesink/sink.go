// Package filesink provides a file-based picture sink implementation.
package filesink

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/user/nalshow/pkg/ports"
)

// Options configures how pictures are written.
type Options struct {
	// Annotate stamps the picture index and NAL unit range onto each frame.
	Annotate bool

	// ScaleWidth and ScaleHeight resize pictures before saving.
	// Zero keeps the decoded dimensions.
	ScaleWidth  int
	ScaleHeight int
}

// Sink saves decoded pictures and intermediate results to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	opts     Options
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer, opts Options) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
		opts:     opts,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveProbeJSON saves the input probe result as JSON.
func (s *Sink) SaveProbeJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "probe.json")
	return s.fs.WriteFile(path, data)
}

// SaveNALUnitsJSON saves the NAL unit listing as JSON.
func (s *Sink) SaveNALUnitsJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "nalunits.json")
	return s.fs.WriteFile(path, data)
}

// SavePicture saves a decoded picture as PNG, optionally scaled and
// annotated with its position in the stream.
func (s *Sink) SavePicture(pic ports.Picture) error {
	img := pic.Image

	if s.opts.ScaleWidth > 0 && s.opts.ScaleHeight > 0 {
		img = s.renderer.ResizeImage(img, s.opts.ScaleWidth, s.opts.ScaleHeight)
	}

	if s.opts.Annotate {
		img = s.annotate(img, pic)
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode picture: %w", err)
	}

	path := filepath.Join(s.baseDir, "pictures", fmt.Sprintf("picture-%04d.png", pic.Index))
	return s.fs.WriteFile(path, data)
}

// SaveReport saves the decode report.
func (s *Sink) SaveReport(data []byte) error {
	path := filepath.Join(s.baseDir, "report.md")
	return s.fs.WriteFile(path, data)
}

// annotate stamps "#NNNN NAL A-B" into the top-left corner.
func (s *Sink) annotate(img image.Image, pic ports.Picture) image.Image {
	bounds := img.Bounds()
	canvas := s.renderer.CreateCanvas(bounds.Dx(), bounds.Dy(), color.Black)
	canvas.DrawImage(img, 0, 0)

	label := pictureLabel(pic)
	style := ports.TextStyle{FontSize: 13, Color: color.White}
	w, h := canvas.MeasureText(label, style)
	canvas.DrawRect(0, 0, int(w)+12, int(h)+10, color.RGBA{A: 180})
	canvas.DrawText(label, 6, (int(h)+10)/2, style)

	return canvas.ToImage()
}

// pictureLabel builds the annotation text for a decoded picture.
func pictureLabel(pic ports.Picture) string {
	return fmt.Sprintf("#%04d NAL %d-%d", pic.Index, pic.FirstNAL, pic.LastNAL)
}

// Ensure Sink implements ports.PictureSink
var _ ports.PictureSink = (*Sink)(nil)
