package h264dec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/user/nalshow/pkg/h264"
)

// ffmpegDecoder implements H.264 decoding using an external ffmpeg process.
// Each access unit is written to a temporary file and decoded in a single
// ffmpeg invocation, so non-keyframe units can only be decoded as part of
// an accumulated run that starts at an IDR picture.
type ffmpegDecoder struct {
	customPath  string
	ffmpegPath  string
	mu          sync.Mutex
	initialized bool
}

// findFFmpeg searches for ffmpeg in PATH and common locations.
// If customPath is set, it is used instead.
func findFFmpeg(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, customPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	path, err := exec.LookPath(execName)
	if err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

func (d *ffmpegDecoder) init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ffmpegPath, err := findFFmpeg(d.customPath)
	if err != nil {
		return err
	}
	d.ffmpegPath = ffmpegPath
	d.initialized = true
	return nil
}

func (d *ffmpegDecoder) decodeFrame(data []byte) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return nil, ErrNotInitialized
	}
	if len(data) == 0 {
		return nil, ErrDecodeFailed
	}

	// Without slice data there is no picture to extract; report
	// "need more data" instead of spawning a doomed process.
	if !containsVCL(data) {
		return nil, nil
	}

	// Create temp file for input
	inputFile, err := os.CreateTemp("", "nalshow_*.h264")
	if err != nil {
		return nil, fmt.Errorf("create input temp file: %w", err)
	}
	inputPath := inputFile.Name()
	defer os.Remove(inputPath)

	if _, err := inputFile.Write(data); err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("write access unit: %w", err)
	}
	inputFile.Close()

	// Create temp file for output
	outputFile, err := os.CreateTemp("", "nalshow_*.png")
	if err != nil {
		return nil, fmt.Errorf("create output temp file: %w", err)
	}
	outputPath := outputFile.Name()
	outputFile.Close()
	defer os.Remove(outputPath)

	var stderr bytes.Buffer
	cmd := exec.Command(d.ffmpegPath,
		"-y",
		"-f", "h264",
		"-i", inputPath,
		"-frames:v", "1",
		"-f", "image2",
		outputPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %s", ErrDecodeFailed, stderr.String())
	}

	imgFile, err := os.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("open decoded image: %w", err)
	}
	defer imgFile.Close()

	img, err := png.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	return img, nil
}

func (d *ffmpegDecoder) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialized = false
}

// containsVCL reports whether the Annex B buffer has at least one coded
// slice NAL unit.
func containsVCL(data []byte) bool {
	nalus, err := h264.SplitAnnexB(data)
	if err != nil {
		return false
	}
	for _, nalu := range nalus {
		if h264.TypeOf(nalu).IsVCL() {
			return true
		}
	}
	return false
}
