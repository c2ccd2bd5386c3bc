package ports

// PictureSink abstracts output of decoded pictures and intermediate results.
// The dump command saves everything; decode only writes when --debug is set.
type PictureSink interface {
	// Enabled returns true if the sink stores its input.
	Enabled() bool

	// SaveProbeJSON saves the input probe result as JSON.
	SaveProbeJSON(data []byte) error

	// SaveNALUnitsJSON saves the NAL unit listing as JSON.
	SaveNALUnitsJSON(data []byte) error

	// SavePicture saves a decoded picture.
	SavePicture(pic Picture) error

	// SaveReport saves the decode report (Markdown).
	SaveReport(data []byte) error
}
