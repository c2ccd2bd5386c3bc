package mocks

import (
	"sync"

	"github.com/user/nalshow/pkg/ports"
)

// PictureSink is a mock implementation of ports.PictureSink.
type PictureSink struct {
	mu sync.RWMutex

	enabled bool

	ProbeJSON    []byte
	NALUnitsJSON []byte
	Pictures     []ports.Picture
	Report       []byte

	SavePictureFunc func(pic ports.Picture) error
}

// NewPictureSink creates a new mock PictureSink.
func NewPictureSink(enabled bool) *PictureSink {
	return &PictureSink{enabled: enabled}
}

func (m *PictureSink) Enabled() bool {
	return m.enabled
}

func (m *PictureSink) SaveProbeJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProbeJSON = data
	return nil
}

func (m *PictureSink) SaveNALUnitsJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NALUnitsJSON = data
	return nil
}

func (m *PictureSink) SavePicture(pic ports.Picture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pictures = append(m.Pictures, pic)
	if m.SavePictureFunc != nil {
		return m.SavePictureFunc(pic)
	}
	return nil
}

func (m *PictureSink) SaveReport(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Report = data
	return nil
}

var _ ports.PictureSink = (*PictureSink)(nil)
