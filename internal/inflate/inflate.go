// Package inflate wraps compress/flate's raw DEFLATE decoder behind a
// reset/transform shape, reusing one flate.Reader across attempts via
// flate.Resetter so the hot verification path never allocates a decoder.
package inflate

import (
	"compress/flate"
	"io"

	"zipcrack/internal/zerr"
)

// Inflater decodes a raw DEFLATE stream in bounded chunks. A zero value is
// not usable; construct one with New.
type Inflater struct {
	fr       io.ReadCloser
	resetter flate.Resetter
	buf      [1024]byte
}

// New constructs an Inflater ready for use.
func New() *Inflater {
	fr := flate.NewReader(eofReader{})
	return &Inflater{
		fr:       fr,
		resetter: fr.(flate.Resetter),
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// Reset returns the decoder to its initial state, ready for the next Transform.
func (inf *Inflater) Reset() {
	_ = inf.resetter.Reset(eofReader{}, nil)
}

// Transform pulls a full DEFLATE stream out of src and delivers the decoded
// plaintext to sink in chunks of at most 1 KiB. Reset must be called before
// each new stream (the validator does this once per verification attempt).
//
// A genuine bitstream error is reported as zerr.ErrCorruptDeflate; callers
// on the verification path treat that as "not a match," never as a
// process-terminating failure — a wrong password can easily produce garbage
// that looks like a broken DEFLATE stream.
func (inf *Inflater) Transform(src io.Reader, sink func([]byte)) error {
	if err := inf.resetter.Reset(src, nil); err != nil {
		return zerr.ErrCorruptDeflate
	}
	for {
		n, err := inf.fr.Read(inf.buf[:])
		if n > 0 {
			sink(inf.buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.ErrCorruptDeflate
		}
	}
}
