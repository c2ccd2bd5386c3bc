package h264

// AccessUnitBuilder groups consecutive NAL units into access units.
//
// Units are buffered until a coded slice arrives. Add then returns the
// buffered run joined into a single Annex B buffer, ready for a decoder
// submission, so parameter sets reach the decoder together with the first
// slice that needs them. The caller resets the builder once the decoder
// has either produced a picture or rejected the unit.
type AccessUnitBuilder struct {
	pending [][]byte
}

// Add appends one NAL unit, copying it. When the unit carries slice data
// the buffered run is returned as an Annex B access unit.
func (b *AccessUnitBuilder) Add(nalu []byte) ([]byte, bool) {
	b.pending = append(b.pending, append([]byte(nil), nalu...))
	if !TypeOf(nalu).IsVCL() {
		return nil, false
	}
	return JoinAnnexB(b.pending), true
}

// Len returns the number of buffered units.
func (b *AccessUnitBuilder) Len() int {
	return len(b.pending)
}

// Reset discards the buffered units.
func (b *AccessUnitBuilder) Reset() {
	b.pending = nil
}
