// Package summarizer provides summary generation for decode results.
package summarizer

import "time"

// Summary contains all data collected during a decode session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input file information
	Input InputInfo

	// Stream structure
	Stream StreamInfo

	// Decoding results
	Decode DecodeInfo

	// Total processing time
	ElapsedMs int
}

// InputInfo describes the probed input file.
type InputInfo struct {
	Path     string
	Format   string
	FileSize int64
}

// StreamInfo describes the NAL unit structure of the stream.
type StreamInfo struct {
	NALUnitCount int
	TypeCounts   []TypeCount
}

// TypeCount is the number of NAL units of one type, in order of first
// appearance.
type TypeCount struct {
	Type  string
	Count int
}

// DecodeInfo contains the decoding outcome.
type DecodeInfo struct {
	Backend  string
	Pictures int
	Failed   int
	Width    int
	Height   int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input file information.
func (b *Builder) WithInput(path, format string, fileSize int64) *Builder {
	b.summary.Input = InputInfo{
		Path:     path,
		Format:   format,
		FileSize: fileSize,
	}
	return b
}

// WithStream sets stream structure information.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Stream = stream
	return b
}

// WithDecode sets decoding results.
func (b *Builder) WithDecode(decode DecodeInfo) *Builder {
	b.summary.Decode = decode
	return b
}

// WithElapsed sets the total processing time.
func (b *Builder) WithElapsed(elapsedMs int) *Builder {
	b.summary.ElapsedMs = elapsedMs
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// CountTypes builds the per-type histogram from an ordered list of NAL unit
// type names.
func CountTypes(types []string) []TypeCount {
	index := make(map[string]int)
	var counts []TypeCount
	for _, name := range types {
		if i, ok := index[name]; ok {
			counts[i].Count++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, TypeCount{Type: name, Count: 1})
	}
	return counts
}
