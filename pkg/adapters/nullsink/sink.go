// Package nullsink provides a picture sink that discards everything.
package nullsink

import (
	"github.com/user/nalshow/pkg/ports"
)

// Sink discards all output.
type Sink struct{}

// New creates a new null sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink stores nothing.
func (s *Sink) Enabled() bool {
	return false
}

// SaveProbeJSON does nothing.
func (s *Sink) SaveProbeJSON(data []byte) error {
	return nil
}

// SaveNALUnitsJSON does nothing.
func (s *Sink) SaveNALUnitsJSON(data []byte) error {
	return nil
}

// SavePicture does nothing.
func (s *Sink) SavePicture(pic ports.Picture) error {
	return nil
}

// SaveReport does nothing.
func (s *Sink) SaveReport(data []byte) error {
	return nil
}

// Ensure Sink implements ports.PictureSink
var _ ports.PictureSink = (*Sink)(nil)
